package snowflake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIDOrdering(t *testing.T) {
	require := require.New(t)

	earlier := TimeToID(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	later := TimeToID(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC))
	require.Less(earlier, later)
}

func TestIDRoundTripsThroughTime(t *testing.T) {
	require := require.New(t)

	ts := time.Date(2023, 4, 1, 12, 30, 0, 0, time.UTC)
	require.Equal(ts, TimeToID(ts).ToTime().UTC())
}

func TestParse(t *testing.T) {
	require := require.New(t)

	id := Now()
	parsed, err := Parse(id.String())
	require.NoError(err)
	require.Equal(id, parsed)

	_, err = Parse("not-a-number")
	require.Error(err)
}
