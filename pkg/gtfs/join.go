package gtfs

import (
	"github.com/rs/zerolog/log"
)

// Join inner joins stop_times with stops, trips and routes. Rows referencing an
// unknown stop, trip or route are dropped, as are rows whose arrival time does
// not parse. Parsing happens on joined rows only.
func (gtfs *Schedule) Join(parser ArrivalTimeParser) []JoinedRecord {
	stopMap := make(map[string]*Stop, len(gtfs.Stops))
	for i := range gtfs.Stops {
		stopMap[gtfs.Stops[i].ID] = &gtfs.Stops[i]
	}
	tripMap := make(map[string]*Trip, len(gtfs.Trips))
	for i := range gtfs.Trips {
		tripMap[gtfs.Trips[i].ID] = &gtfs.Trips[i]
	}
	routeMap := make(map[string]*Route, len(gtfs.Routes))
	for i := range gtfs.Routes {
		routeMap[gtfs.Routes[i].ID] = &gtfs.Routes[i]
	}

	records := make([]JoinedRecord, 0, len(gtfs.StopTimes))
	unmatched := 0
	unparsed := 0

	for _, stopTime := range gtfs.StopTimes {
		stop, stopExists := stopMap[stopTime.StopID]
		trip, tripExists := tripMap[stopTime.TripID]
		if !stopExists || !tripExists {
			unmatched++
			continue
		}
		route, routeExists := routeMap[trip.RouteID]
		if !routeExists {
			unmatched++
			continue
		}

		arrivalSeconds, err := parser.Parse(stopTime.ArrivalTime)
		if err != nil {
			unparsed++
			continue
		}

		records = append(records, JoinedRecord{
			TripID:         stopTime.TripID,
			StopID:         stopTime.StopID,
			StopSequence:   stopTime.StopSequence,
			ArrivalTime:    stopTime.ArrivalTime,
			ArrivalSeconds: arrivalSeconds,
			StopName:       stop.Name,
			Latitude:       stop.Latitude,
			Longitude:      stop.Longitude,
			RouteID:        route.ID,
			DirectionID:    trip.DirectionID,
			RouteShortName: route.ShortName,
		})
	}

	log.Debug().
		Int("length", len(records)).
		Int("unmatched", unmatched).
		Int("unparsed", unparsed).
		Msg("Joined stop times")

	return records
}
