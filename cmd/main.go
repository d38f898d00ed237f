package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/cache"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/geotiff"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/pipeline"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/properties"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/regions"
	"github.com/flood-guardian/flood-guardian-api-poc/output"
)

func printBanner() {
	figure1 := figure.NewFigure("Flood", "isometric1", true)
	figure2 := figure.NewFigure("Guardian", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

// analysisSummary is the cacheable slice of a result: statistics and
// zones, without the full-resolution grids.
type analysisSummary struct {
	Sensor       string         `json:"sensor"`
	FloodPercent float64        `json:"flood_percent"`
	AreaKm2      float64        `json:"area_km2"`
	OverallRisk  string         `json:"overall_risk"`
	Zones        []regions.Zone `json:"zones"`
}

func summarize(result *pipeline.Result) analysisSummary {
	stats := result.Statistics()
	return analysisSummary{
		Sensor:       string(result.Assessment.Sensor),
		FloodPercent: stats.FloodPercent,
		AreaKm2:      stats.AffectedAreaKm2,
		OverallRisk:  stats.OverallRisk,
		Zones:        result.Zones,
	}
}

func loadScene(path string, sensor raster.Sensor) *raster.Scene {
	if path == "" {
		return nil
	}
	bandOrder := geotiff.RadarBandOrder
	if sensor == raster.SensorOptical {
		bandOrder = geotiff.OpticalBandOrder
	}
	scene, err := geotiff.Load(path, sensor, bandOrder)
	if err != nil {
		fmt.Printf("\n\033[31mError loading %s scene: %s\033[0m\n", sensor, err.Error())
		return nil
	}
	return scene
}

func analyzeScenePair(p *pipeline.Pipeline, resultCache *cache.FileCache[analysisSummary]) {
	fmt.Println("\033[33m\nWarning:\033[0m")
	fmt.Println("\033[33m- Scene GeoTIFFs should be present in the data/scenes folder.\033[0m")
	fmt.Println("\033[33m- Leave a path empty to skip that sensor.\n\033[0m")
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("\033[34mEnter the radar GeoTIFF path: \033[0m")
	radarPath, _ := reader.ReadString('\n')
	radarPath = strings.TrimSpace(radarPath)

	fmt.Print("\033[34mEnter the optical GeoTIFF path: \033[0m")
	opticalPath, _ := reader.ReadString('\n')
	opticalPath = strings.TrimSpace(opticalPath)

	if radarPath == "" && opticalPath == "" {
		fmt.Printf("\n\033[31mAt least one scene path is required.\033[0m\n")
		return
	}

	cacheKey := cache.KeyForScenePair(radarPath, opticalPath)
	if summary, ok := resultCache.Get(cacheKey); ok {
		fmt.Printf("\n\033[32mCached analysis: %s sensor, %.2f%% flooded, %.2f km2, risk %s, %d zones\033[0m\n",
			summary.Sensor, summary.FloodPercent, summary.AreaKm2, summary.OverallRisk, len(summary.Zones))
		return
	}

	radar := loadScene(radarPath, raster.SensorRadar)
	optical := loadScene(opticalPath, raster.SensorOptical)

	result, err := p.Run(radar, optical)
	if err != nil {
		fmt.Printf("\n\033[31mError analyzing scenes: %s\033[0m\n", err.Error())
		return
	}

	outputFileName := fmt.Sprintf("flood_%s", time.Now().Format("2006-01-02_150405"))

	outputGeoJsonFilePath := output.CreateFloodZonesGeoJson(result, outputFileName)
	outputImagePath := fmt.Sprintf("%s/result/%s.png", properties.DataPath(), outputFileName)
	if err := output.CreateFloodOverlayImage(result, outputImagePath); err != nil {
		fmt.Printf("\n\033[31mError creating overlay image: %s\033[0m\n", err.Error())
		return
	}
	outputCsvFilePath, err := output.CreateRegionReportCsv(result, outputFileName)
	if err != nil {
		fmt.Printf("\n\033[31mError creating region report: %s\033[0m\n", err.Error())
		return
	}

	if err := resultCache.Set(cacheKey, summarize(result)); err != nil {
		fmt.Printf("\033[33mFailed to cache result: %s\033[0m\n", err.Error())
	}

	stats := result.Statistics()
	fmt.Printf("\n\033[32mSuccessful analysis!\n Sensor: %s\n Flooded: %.2f%% (%.2f km2)\n Overall risk: %s\n Overlay image: %s\n GeoJSON: %s\n Region report: %s\033[0m\n",
		result.Assessment.Sensor, stats.FloodPercent, stats.AffectedAreaKm2, stats.OverallRisk,
		outputImagePath, outputGeoJsonFilePath, outputCsvFilePath)
}

func listScenes() {
	scenesPath := properties.DataPath() + "/scenes"
	files, err := os.ReadDir(scenesPath)
	if err != nil {
		fmt.Printf("\n\033[31mError reading scenes folder: %s\033[0m\n", err.Error())
		return
	}
	fmt.Println("\033[33m\nWarning:\033[0m")
	fmt.Println("\033[33mTo add a new scene, place its GeoTIFF at the 'data/scenes' folder.\033[0m")

	fmt.Println("\n\033[32mAvailable scenes:\033[0m")
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".tif") || strings.HasSuffix(file.Name(), ".tiff") {
			fmt.Printf("\033[32m- %s\033[0m\n", file.Name())
		}
	}
}

// Cached summaries outlive a working session but not a flood event.
const resultCacheTTL = 24 * time.Hour

func initCLI(p *pipeline.Pipeline, log zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			pc, file, line, ok := runtime.Caller(3)
			var location string
			if ok {
				fn := runtime.FuncForPC(pc)
				location = fmt.Sprintf("%s:%d in %s", file, line, fn.Name())
			} else {
				location = "Unknown location"
			}

			fmt.Printf("\n\033[31mPANIC: %v\033[0m\n", r)
			fmt.Printf("\033[31mLocation: %s\033[0m\n", location)
			fmt.Printf("\033[31mPlease check the input and try again.\033[0m\n")
			fmt.Printf("\033[31mExiting...\033[0m\n")
			debug.PrintStack()
		}
	}()
	printBanner()

	resultCache := cache.NewFileCache[analysisSummary]("result_cache", resultCacheTTL, log)

	for {
		fmt.Println("\033[34m===================\033[0m")
		fmt.Println("\033[34m1. Analyze a scene pair\033[0m")
		fmt.Println("\033[34m2. List available scenes\033[0m")
		fmt.Println("\033[34m3. Exit\033[0m")
		fmt.Println("\033[34mEnter your choice:\033[0m")

		var choice int
		_, err := fmt.Scan(&choice)
		if err != nil {
			fmt.Printf("\n\033[31mInvalid input. Please enter a number.\033[0m\n")
			fmt.Scanln()
			continue
		}

		switch choice {
		case 1:
			analyzeScenePair(p, resultCache)
		case 2:
			listScenes()
		case 3:
			println("Exiting...")
			return
		default:
			println("Invalid choice. Please try again.")
		}
	}
}

func main() {
	err := godotenv.Load("../../.env")
	if err != nil {
		godotenv.Load("../.env")
	}

	cfg := config.Default()
	if path := os.Getenv("FLOOD_CONFIG"); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			fmt.Printf("\033[31mError loading config: %s\033[0m\n", err.Error())
			os.Exit(1)
		}
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	initCLI(pipeline.New(cfg, log), log)
}
