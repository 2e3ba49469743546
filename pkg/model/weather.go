package model

// WeatherSnapshot is the subset of the weather API's current.json response
// the dashboard uses.
type WeatherSnapshot struct {
	Location struct {
		Name      string  `json:"name"`
		Region    string  `json:"region"`
		Country   string  `json:"country"`
		Lat       float64 `json:"lat"`
		Lon       float64 `json:"lon"`
		TzID      string  `json:"tz_id"`
		Localtime string  `json:"localtime"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		Condition struct {
			Text string `json:"text"`
			Code int    `json:"code"`
		} `json:"condition"`
	} `json:"current"`
}

// Validate checks a snapshot decoded from the weather API.
func (w *WeatherSnapshot) Validate() error {
	if blank(w.Location.Name) {
		return invalid("weather location missing")
	}
	if !finite(w.Current.TempC) {
		return invalid("weather temperature not a number")
	}
	return nil
}
