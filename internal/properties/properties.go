package properties

import "os"

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func DataPath() string {
	if p := os.Getenv("DATA_PATH"); p != "" {
		return p
	}
	return RootPath() + "/data"
}

type Color struct {
	R, G, B uint8
}

// Overlay colors for rendered flood masks, keyed by risk label.
var ColorMap = map[string]Color{
	"Low":    {46, 134, 222},
	"Medium": {255, 159, 26},
	"High":   {235, 59, 90},
}
