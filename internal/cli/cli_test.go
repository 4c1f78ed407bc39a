package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stayscout/internal/server"
	"github.com/matzehuels/stayscout/pkg/config"
	"github.com/matzehuels/stayscout/pkg/errors"
	"github.com/matzehuels/stayscout/pkg/integrations"
	"github.com/matzehuels/stayscout/pkg/listing"
)

// stubSource records the arguments it receives and returns canned records.
type stubSource struct {
	mu     sync.Mutex
	search listing.SearchParams
	months int
	cursor string
	ids    []string
}

func (s *stubSource) record(id string) {
	s.mu.Lock()
	s.ids = append(s.ids, id)
	s.mu.Unlock()
}

func (s *stubSource) Search(_ context.Context, p listing.SearchParams) (*listing.SearchResult, error) {
	s.mu.Lock()
	s.search = p
	s.mu.Unlock()
	return &listing.SearchResult{
		Listings: []listing.Listing{{
			ID:            "1",
			Name:          "Loft in " + p.Location,
			PricePerNight: 120,
			Currency:      "USD",
			Rating:        listing.Ptr(4.9),
			ReviewCount:   87,
			URL:           "https://www.airbnb.com/rooms/1",
		}},
		NextCursor: "abc",
	}, nil
}

func (s *stubSource) Detail(_ context.Context, id string) (*listing.ListingDetail, error) {
	s.record(id)
	if id == "999" {
		return nil, errors.NotFound(string(listing.OpDetail), id)
	}
	return &listing.ListingDetail{ID: id, Name: "Listing " + id, HouseRules: []string{"No parties"}}, nil
}

func (s *stubSource) Reviews(_ context.Context, id, cursor string) (*listing.ReviewsPage, error) {
	s.mu.Lock()
	s.cursor = cursor
	s.mu.Unlock()
	return &listing.ReviewsPage{ListingID: id, Reviews: []listing.Review{{Author: "Ana", Comment: "Lovely"}}}, nil
}

func (s *stubSource) Calendar(_ context.Context, id string, months int) (*listing.PriceCalendar, error) {
	s.mu.Lock()
	s.months = months
	s.mu.Unlock()
	return &listing.PriceCalendar{ListingID: id, Currency: "USD"}, nil
}

func (s *stubSource) Host(_ context.Context, id string) (*listing.HostProfile, error) {
	return &listing.HostProfile{Name: "Maria", IsSuperhost: listing.Ptr(true)}, nil
}

func (s *stubSource) NeighborhoodStats(_ context.Context, p listing.SearchParams) (*listing.NeighborhoodStats, error) {
	return &listing.NeighborhoodStats{Location: p.Location, TotalListings: 1}, nil
}

func (s *stubSource) Occupancy(_ context.Context, id string, months int) (*listing.OccupancyEstimate, error) {
	return &listing.OccupancyEstimate{ListingID: id, OccupancyRate: 42.5}, nil
}

func newTestCLI(src integrations.Source) *CLI {
	c := New(io.Discard, LogInfo)
	c.spinners = false
	c.openSource = func(config.Config, *log.Logger) (integrations.Source, func() error, error) {
		return src, func() error { return nil }, nil
	}
	return c
}

// execute runs the root command with a config file holding cfg. An empty
// cfg points at a file that does not exist.
func execute(t *testing.T, c *CLI, cfg string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if cfg != "" {
		require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	}

	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", path}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCommandsMirrorOperations(t *testing.T) {
	root := newTestCLI(&stubSource{}).RootCommand()

	for _, op := range server.Operations {
		var found bool
		for _, def := range commandTable {
			if def.op == op.Op {
				found = true
			}
		}
		assert.True(t, found, "no command for %s", op.Op)
	}

	search, _, err := root.Find([]string{"search"})
	require.NoError(t, err)
	for _, name := range []string{"checkin", "checkout", "adults", "min-price", "max-price", "property-type", "cursor"} {
		assert.NotNil(t, search.Flags().Lookup(name), "search flag %s", name)
	}
	assert.Nil(t, search.Flags().Lookup("location"), "location is positional")

	detail, _, err := root.Find([]string{"detail"})
	require.NoError(t, err)
	assert.Nil(t, detail.Flags().Lookup("id"), "id is positional")
}

func TestSearchCommand_FlagsMapToParams(t *testing.T) {
	src := &stubSource{}
	out, err := execute(t, newTestCLI(src), "", "--json", "search", "Lisbon",
		"--adults", "2", "--min-price", "50", "--property-type", "Entire home", "--cursor", "c1")
	require.NoError(t, err)

	assert.Equal(t, listing.SearchParams{
		Location:     "Lisbon",
		Adults:       2,
		MinPrice:     50,
		PropertyType: "Entire home",
		Cursor:       "c1",
	}, src.search)

	var res listing.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Listings, 1)
	assert.Equal(t, "Loft in Lisbon", res.Listings[0].Name)
	assert.Equal(t, "abc", res.NextCursor)
}

func TestSearchCommand_RequiresLocation(t *testing.T) {
	_, err := execute(t, newTestCLI(&stubSource{}), "", "search")
	assert.Error(t, err)
}

func TestDetailCommand_MultipleIDsKeepOrder(t *testing.T) {
	src := &stubSource{}
	out, err := execute(t, newTestCLI(src), "", "--json", "detail", "3", "1", "2")
	require.NoError(t, err)

	var got []listing.ListingDetail
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "1", got[1].ID)
	assert.Equal(t, "2", got[2].ID)

	sort.Strings(src.ids)
	assert.Equal(t, []string{"1", "2", "3"}, src.ids)
}

func TestDetailCommand_ErrorFailsBatch(t *testing.T) {
	out, err := execute(t, newTestCLI(&stubSource{}), "", "--json", "detail", "1", "999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.Contains(t, errors.UserMessage(err), "999")
	assert.Empty(t, out)
}

func TestCalendarCommand_Months(t *testing.T) {
	src := &stubSource{}
	_, err := execute(t, newTestCLI(src), "", "--json", "calendar", "5", "--months", "6")
	require.NoError(t, err)
	assert.Equal(t, 6, src.months)

	_, err = execute(t, newTestCLI(src), "", "--json", "calendar", "5")
	require.NoError(t, err)
	assert.Equal(t, 0, src.months, "unset flag leaves the default to the source")
}

func TestReviewsCommand_Cursor(t *testing.T) {
	src := &stubSource{}
	_, err := execute(t, newTestCLI(src), "", "--json", "reviews", "5", "--cursor", "50")
	require.NoError(t, err)
	assert.Equal(t, "50", src.cursor)
}

func TestRenderedOutput(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"search", "Lisbon"}, []string{"Loft in Lisbon", "120 USD", "87 reviews", "https://www.airbnb.com/rooms/1", "--cursor abc"}},
		{[]string{"detail", "7"}, []string{"Listing 7", "House rules", "No parties"}},
		{[]string{"reviews", "7"}, []string{"Reviews", "Ana", "Lovely"}},
		{[]string{"host", "7"}, []string{"Maria", "Superhost", "yes"}},
		{[]string{"stats", "Kyoto"}, []string{"Kyoto", "(1 listings)"}},
		{[]string{"occupancy", "7"}, []string{"Occupancy", "42.5%"}},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out, err := execute(t, newTestCLI(&stubSource{}), "", tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	_, err := execute(t, newTestCLI(&stubSource{}), "[cache]\nbackend = \"disk\"\n", "detail", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
}

func TestNoCacheOverridesBackend(t *testing.T) {
	c := New(io.Discard, LogInfo)
	out, err := execute(t, c, "", "--no-cache", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Caching is disabled")
}

func TestCacheCommands_MemoryBackend(t *testing.T) {
	cfg := "[cache]\nbackend = \"memory\"\ncapacity = 42\n"

	out, err := execute(t, New(io.Discard, LogInfo), cfg, "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "memory")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "TTL search")

	out, err = execute(t, New(io.Discard, LogInfo), cfg, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to clear")

	out, err = execute(t, New(io.Discard, LogInfo), cfg, "cache", "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to ping")
}

func TestConfigShowIsLoadable(t *testing.T) {
	out, err := execute(t, New(io.Discard, LogInfo), "[cache]\ncapacity = 42\n", "config", "show")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)

	want := config.Default()
	want.Cache.Capacity = 42
	assert.Equal(t, want, cfg)
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, New(io.Discard, LogInfo), "", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "config.toml")
	assert.Contains(t, out, "using defaults")
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, New(io.Discard, LogInfo), "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "stayscout")
}
