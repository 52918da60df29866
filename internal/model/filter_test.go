package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"", FilterAll},
		{"all", FilterAll},
		{"/", FilterAll},
		{"active", FilterActive},
		{"/active", FilterActive},
		{"#/completed", FilterCompleted},
		{" Completed ", FilterCompleted},
		{"archived", FilterAll},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ParseFilter(tt.in))
		})
	}
}

func TestFilterRouteRoundTrip(t *testing.T) {
	for _, f := range Filters {
		require.Equal(t, f, ParseFilter(f.Route()), "route %q", f.Route())
	}
}

func TestFilterMatch(t *testing.T) {
	open := Task{ID: "a", Title: "open"}
	done := Task{ID: "b", Title: "done", Completed: true}

	require.True(t, FilterAll.Match(open))
	require.True(t, FilterAll.Match(done))
	require.True(t, FilterActive.Match(open))
	require.False(t, FilterActive.Match(done))
	require.False(t, FilterCompleted.Match(open))
	require.True(t, FilterCompleted.Match(done))
	require.True(t, Filter("bogus").Match(done))
}

func TestFilterNext(t *testing.T) {
	require.Equal(t, FilterActive, FilterAll.Next())
	require.Equal(t, FilterCompleted, FilterActive.Next())
	require.Equal(t, FilterAll, FilterCompleted.Next())
	require.Equal(t, FilterAll, Filter("x").Next())
}
