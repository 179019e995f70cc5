package theme

import (
	"image/color"
)

// Theme defines the colour palette for the chart and its trendline overlay.
type Theme struct {
	Name string

	// Chart
	Background color.RGBA // Window and plot background
	Grid       color.RGBA // Horizontal price grid lines
	AxisText   color.RGBA // Price and date labels
	CandleUp   color.RGBA // Close above open
	CandleDown color.RGBA // Close below open

	// Trendlines
	Line         color.RGBA
	LineHover    color.RGBA
	HandleFill   color.RGBA
	HandleStroke color.RGBA
	Preview      color.RGBA // In-progress line while creating

	// Annotations
	TooltipBackground color.RGBA
	TooltipText       color.RGBA
	DeleteBackground  color.RGBA
	DeleteText        color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{255, 255, 255, 255},
		Grid:              color.RGBA{235, 235, 235, 255},
		AxisText:          color.RGBA{90, 90, 90, 255},
		CandleUp:          color.RGBA{236, 0, 0, 255},
		CandleDown:        color.RGBA{0, 218, 60, 255},
		Line:              color.RGBA{33, 150, 243, 255},
		LineHover:         color.RGBA{25, 118, 210, 255},
		HandleFill:        color.RGBA{255, 255, 255, 255},
		HandleStroke:      color.RGBA{33, 150, 243, 255},
		Preview:           color.RGBA{76, 175, 80, 255},
		TooltipBackground: color.RGBA{50, 50, 50, 204},
		TooltipText:       color.RGBA{255, 255, 255, 255},
		DeleteBackground:  color.RGBA{255, 0, 0, 255},
		DeleteText:        color.RGBA{255, 255, 255, 255},
	}
}
