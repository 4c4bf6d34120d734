package config

// Stop is one configured stop to poll on the stationboard API.
//
// LinesInclude and LinesExclude map a line number to a terminal (direction)
// id. An empty terminal means "any direction". At most one of the two maps
// may be set; with neither, every line is shown.
type Stop struct {
	ID               string            `json:"ID" validate:"required"`
	Limit            int               `json:"Limit,omitempty" validate:"gte=0"`
	LinesInclude     map[string]string `json:"LinesInclude,omitempty"`
	LinesExclude     map[string]string `json:"LinesExclude,omitempty"`
	HideMunicipality bool              `json:"hide_municipality,omitempty"`
}

// Config is the persisted busboard configuration.
type Config struct {
	Stops []Stop `json:"stops" validate:"dive"`

	MaxDepartures int `json:"max_departures" validate:"gte=0"`
	FetchInterval int `json:"fetch_interval" validate:"gte=0"` // seconds
	MaxMinutes    int `json:"max_minutes" validate:"gte=0"`
	HTTPTimeout   int `json:"http_timeout" validate:"gte=0"` // seconds

	ShowClock   bool `json:"show_clock"`
	ShowWeather bool `json:"show_weather"`

	// Base design sizes, scaled to the physical display at startup.
	Cols         int     `json:"cols" validate:"gte=0"`
	Rows         int     `json:"rows" validate:"gte=0"`
	CellW        int     `json:"cell_w" validate:"gte=0"`
	BarH         int     `json:"bar_h" validate:"gte=0"`
	BarMargin    int     `json:"bar_margin" validate:"gte=0"`
	BarPadding   int     `json:"bar_padding" validate:"gte=0"`
	CardPadding  int     `json:"card_padding" validate:"gte=0"`
	MinuteSize   int     `json:"minute_size" validate:"gte=0"`
	NowSize      int     `json:"now_size" validate:"gte=0"`
	StopNameSize int     `json:"stop_name_size" validate:"gte=0"`
	LineSize     int     `json:"line_size" validate:"gte=0"`
	IconSize     int     `json:"icon_size" validate:"gte=0"`
	BorderRadius int     `json:"border_radius" validate:"gte=0"`
	ShadowOffset int     `json:"shadow_offset" validate:"gte=0"`
	GridShrink   float64 `json:"grid_shrink" validate:"gte=0,lte=1"`

	WidgetSize     int `json:"widget_size" validate:"gte=0"`
	WidgetTextSize int `json:"widget_text_size" validate:"gte=0"`
	WidgetIconSize int `json:"widget_icon_size" validate:"gte=0"`

	// Weather forecast location.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Default returns a Config populated with the documented defaults.
func Default() Config {
	return Config{
		Stops:          []Stop{},
		MaxDepartures:  8,
		FetchInterval:  60,
		MaxMinutes:     120,
		HTTPTimeout:    10,
		ShowClock:      true,
		ShowWeather:    true,
		Cols:           8,
		Rows:           2,
		CellW:          140,
		BarH:           320,
		BarMargin:      30,
		BarPadding:     25,
		CardPadding:    15,
		MinuteSize:     48,
		NowSize:        30,
		StopNameSize:   48,
		LineSize:       40,
		IconSize:       60,
		BorderRadius:   16,
		ShadowOffset:   6,
		GridShrink:     0.7,
		WidgetSize:     320,
		WidgetTextSize: 36,
		WidgetIconSize: 48,
		Latitude:       46.1925,
		Longitude:      6.17017,
		Timezone:       "Europe/Zurich",
	}
}
