package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinSchedule() *Schedule {
	return &Schedule{
		Stops: []Stop{
			{ID: "s1", Name: "Nation", Latitude: 48.848, Longitude: 2.396},
			{ID: "s2", Name: "Bastille", Latitude: 48.853, Longitude: 2.369},
		},
		Routes: []Route{
			{ID: "r1", ShortName: "1"},
		},
		Trips: []Trip{
			{RouteID: "r1", ID: "t1", DirectionID: 1},
			{RouteID: "unknown-route", ID: "t2", DirectionID: 0},
		},
		StopTimes: []StopTime{
			{TripID: "t1", StopID: "s1", StopSequence: 1, ArrivalTime: "08:00:00"},
			{TripID: "t1", StopID: "s2", StopSequence: 2, ArrivalTime: "08:03:00"},
			{TripID: "t1", StopID: "unknown-stop", StopSequence: 3, ArrivalTime: "08:05:00"},
			{TripID: "unknown-trip", StopID: "s1", StopSequence: 1, ArrivalTime: "09:00:00"},
			{TripID: "t2", StopID: "s1", StopSequence: 1, ArrivalTime: "09:00:00"},
		},
	}
}

func TestJoin(t *testing.T) {
	records := joinSchedule().Join(ArrivalTimeParser{})

	require.Len(t, records, 2)
	assert.Equal(t, JoinedRecord{
		TripID:         "t1",
		StopID:         "s1",
		StopSequence:   1,
		ArrivalTime:    "08:00:00",
		ArrivalSeconds: 8 * 3600,
		StopName:       "Nation",
		Latitude:       48.848,
		Longitude:      2.396,
		RouteID:        "r1",
		DirectionID:    1,
		RouteShortName: "1",
	}, records[0])
	assert.Equal(t, "Bastille", records[1].StopName)
	assert.Equal(t, 8*3600+180, records[1].ArrivalSeconds)
}

func TestJoinDropsUnparsableTimes(t *testing.T) {
	schedule := joinSchedule()
	schedule.StopTimes = append(schedule.StopTimes,
		StopTime{TripID: "t1", StopID: "s2", StopSequence: 4, ArrivalTime: ""},
		StopTime{TripID: "t1", StopID: "s1", StopSequence: 5, ArrivalTime: "24:10:00"},
	)

	strict := schedule.Join(ArrivalTimeParser{})
	assert.Len(t, strict, 2)

	extended := schedule.Join(ArrivalTimeParser{AllowExtendedHours: true})
	require.Len(t, extended, 3)
	assert.Equal(t, 5, extended[2].StopSequence)
	assert.Equal(t, 24*3600+600, extended[2].ArrivalSeconds)
}

func TestJoinEmpty(t *testing.T) {
	schedule := &Schedule{}

	assert.Empty(t, schedule.Join(ArrivalTimeParser{}))
}
