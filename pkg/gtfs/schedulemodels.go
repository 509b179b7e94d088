package gtfs

// Only the columns needed to build the station graph are bound. Optional GTFS
// columns never make it into these records.

type Stop struct {
	ID        string  `csv:"stop_id"`
	Name      string  `csv:"stop_name"`
	Latitude  float64 `csv:"stop_lat"`
	Longitude float64 `csv:"stop_lon"`
}

type Route struct {
	ID        string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
}

type Trip struct {
	RouteID     string `csv:"route_id"`
	ID          string `csv:"trip_id"`
	DirectionID int    `csv:"direction_id"`
}

type StopTime struct {
	TripID       string `csv:"trip_id"`
	StopID       string `csv:"stop_id"`
	StopSequence int    `csv:"stop_sequence"`
	ArrivalTime  string `csv:"arrival_time"`
}

// JoinedRecord is one stop_times row with its stop, trip and route attached
type JoinedRecord struct {
	TripID       string
	StopID       string
	StopSequence int
	ArrivalTime  string
	// Seconds past midnight of the service day
	ArrivalSeconds int

	StopName  string
	Latitude  float64
	Longitude float64

	RouteID        string
	DirectionID    int
	RouteShortName string
}
