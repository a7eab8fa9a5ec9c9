package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/HenryVantieghem/tierline/internal/adapters/http/api"
	"github.com/HenryVantieghem/tierline/internal/adapters/repository"
	"github.com/HenryVantieghem/tierline/internal/domain/display"
	"github.com/HenryVantieghem/tierline/internal/domain/model"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
	"github.com/HenryVantieghem/tierline/internal/domain/types"
)

// fakeDeps implements api.Dependencies with canned behavior per test.
type fakeDeps struct {
	seen       map[string]bool
	unrecorded []string
	enqueued   []model.Event
	full       bool
	records    map[string][]model.Record
	entries    []api.Entry
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{
		seen:    make(map[string]bool),
		records: make(map[string][]model.Record),
	}
}

func (f *fakeDeps) SeenAndRecord(_ context.Context, id string) bool {
	if f.seen[id] {
		return true
	}
	f.seen[id] = true
	return false
}

func (f *fakeDeps) Unrecord(_ context.Context, id string) {
	delete(f.seen, id)
	f.unrecorded = append(f.unrecorded, id)
}

func (f *fakeDeps) Size() int64 { return int64(len(f.seen)) }

func (f *fakeDeps) EnergyFill(pointsEarned, starRating int) float64 {
	fill := float64(pointsEarned)/50.0 + float64(starRating)*0.1
	if fill > 1.0 {
		fill = 1.0
	}
	return fill
}

func (f *fakeDeps) HealthRatio(currentHealth, totalHealth int) float64 {
	if totalHealth <= 0 {
		return 0
	}
	ratio := float64(currentHealth) / float64(totalHealth)
	if ratio > 1.0 {
		ratio = 1.0
	}
	return ratio
}

func (f *fakeDeps) Enqueue(_ context.Context, e model.Event) bool {
	if f.full {
		return false
	}
	f.enqueued = append(f.enqueued, e)
	return true
}

func (f *fakeDeps) Classify(_ context.Context, metric float64, family tier.Family) (tier.Tier, display.Params, error) {
	t, err := tier.Classify(metric, family)
	if err != nil {
		return tier.Tier{}, display.Params{}, err
	}
	params, err := display.Resolve(t)
	if err != nil {
		return tier.Tier{}, display.Params{}, err
	}
	return t, params, nil
}

func (f *fakeDeps) Profile(_ context.Context, userID string) ([]model.Record, error) {
	recs, ok := f.records[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return recs, nil
}

func (f *fakeDeps) TopN(_ context.Context, _ tier.Family, n int) ([]api.Entry, error) {
	if n > len(f.entries) {
		n = len(f.entries)
	}
	return f.entries[:n], nil
}

func (f *fakeDeps) Encourage(_ context.Context, taskTitle, _ string) string {
	return "keep going with " + taskTitle
}

func (f *fakeDeps) GetStats() types.Stats {
	return types.Stats{Started: true, QueueLength: len(f.enqueued)}
}

func newTestServer(deps *fakeDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, deps, 50).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestPostEvent(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := newFakeDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		body := `{"event_id":"e1","user_id":"alice","family":"streak","metric":7,"ts":"2026-08-29T10:00:00Z"}`

		Convey("When a valid event is posted", func() {
			resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it is accepted and enqueued", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].UserID, ShouldEqual, "alice")
				So(deps.enqueued[0].Family, ShouldEqual, tier.FamilyStreak)
				So(deps.enqueued[0].Metric, ShouldEqual, 7)
			})
		})

		Convey("When the same event is posted twice", func() {
			resp1, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(body))
			So(err, ShouldBeNil)
			resp1.Body.Close()
			resp2, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(body))
			So(err, ShouldBeNil)
			defer resp2.Body.Close()

			Convey("Then the second is flagged as a duplicate", func() {
				So(resp2.StatusCode, ShouldEqual, http.StatusOK)
				var ack struct {
					Status    string `json:"status"`
					Duplicate bool   `json:"duplicate"`
				}
				So(json.NewDecoder(resp2.Body).Decode(&ack), ShouldBeNil)
				So(ack.Duplicate, ShouldBeTrue)
				So(deps.enqueued, ShouldHaveLength, 1)
			})
		})

		Convey("When the queue is full", func() {
			deps.full = true
			resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then backpressure is signaled and the dedupe entry rolled back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
				So(deps.unrecorded, ShouldContain, "e1")
				So(deps.Size(), ShouldEqual, 0)
			})
		})

		Convey("When an energy event carries raw points and stars", func() {
			raw := `{"event_id":"e5","user_id":"alice","family":"energy","points":25,"stars":2,"ts":"2026-08-29T10:00:00Z"}`
			resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(raw))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the metric is derived before enqueueing", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].Family, ShouldEqual, tier.FamilyEnergy)
				So(deps.enqueued[0].Metric, ShouldAlmostEqual, 0.7, 1e-9)
			})
		})

		Convey("When a boss health event carries raw health values", func() {
			raw := `{"event_id":"e6","user_id":"alice","family":"boss_health","current_health":120,"total_health":100,"ts":"2026-08-29T10:00:00Z"}`
			resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(raw))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the ratio is clamped to full health", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].Metric, ShouldEqual, 1.0)
			})
		})

		Convey("When a streak event omits its metric", func() {
			raw := `{"event_id":"e7","user_id":"alice","family":"streak","ts":"2026-08-29T10:00:00Z"}`
			resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(raw))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When required fields are missing", func() {
			resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(`{"event_id":"e2"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the metric is negative", func() {
			bad := `{"event_id":"e3","user_id":"alice","family":"streak","metric":-1,"ts":"2026-08-29T10:00:00Z"}`
			resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(bad))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the family is unknown", func() {
			bad := `{"event_id":"e4","user_id":"alice","family":"karma","metric":1,"ts":"2026-08-29T10:00:00Z"}`
			resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(bad))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetClassify(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := newFakeDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When a streak metric is classified", func() {
			resp, err := http.Get(srv.URL + "/classify?family=streak&metric=14")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the tier and display params come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out struct {
					Family string `json:"family"`
					Tier   struct {
						Rank int    `json:"rank"`
						Name string `json:"name"`
					} `json:"tier"`
					Display struct {
						Label     string  `json:"label"`
						Intensity float64 `json:"intensity"`
					} `json:"display"`
				}
				So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
				So(out.Family, ShouldEqual, "streak")
				So(out.Tier.Name, ShouldEqual, "gold")
				So(out.Tier.Rank, ShouldEqual, 4)
				So(out.Display.Label, ShouldEqual, "Gold")
				So(out.Display.Intensity, ShouldBeBetweenOrEqual, 0, 1)
			})
		})

		Convey("When the family is unknown", func() {
			resp, err := http.Get(srv.URL + "/classify?family=karma&metric=1")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the metric is not a number", func() {
			resp, err := http.Get(srv.URL + "/classify?family=streak&metric=loads")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the metric is negative", func() {
			resp, err := http.Get(srv.URL + "/classify?family=streak&metric=-3")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetProfile(t *testing.T) {
	Convey("Given an API server with one stored profile", t, func() {
		deps := newFakeDeps()
		deps.records["alice"] = []model.Record{
			{UserID: "alice", Family: tier.FamilyStreak, Metric: 14, TierRank: 4, TierName: "gold"},
			{UserID: "alice", Family: tier.FamilyCombo, Metric: 4, TierRank: 3, TierName: "x2"},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When the profile is requested", func() {
			resp, err := http.Get(srv.URL + "/profile/alice")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then all families come back with display params", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out struct {
					UserID   string `json:"user_id"`
					Families []struct {
						Family  string `json:"family"`
						Display struct {
							Label string `json:"label"`
						} `json:"display"`
					} `json:"families"`
				}
				So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
				So(out.UserID, ShouldEqual, "alice")
				So(out.Families, ShouldHaveLength, 2)
				So(out.Families[0].Display.Label, ShouldNotBeBlank)
			})
		})

		Convey("When an unknown user is requested", func() {
			resp, err := http.Get(srv.URL + "/profile/nobody")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the user id is missing", func() {
			resp, err := http.Get(srv.URL + "/profile/")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetLeaderboard(t *testing.T) {
	Convey("Given an API server with leaderboard entries", t, func() {
		deps := newFakeDeps()
		deps.entries = []api.Entry{
			{Rank: 1, UserID: "bob", Metric: 30, Tier: "diamond"},
			{Rank: 2, UserID: "alice", Metric: 14, Tier: "gold"},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When the top entries are requested", func() {
			resp, err := http.Get(srv.URL + "/leaderboard?family=streak&limit=10")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the entries come back ranked", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out []api.Entry
				So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
				So(out, ShouldHaveLength, 2)
				So(out[0].UserID, ShouldEqual, "bob")
			})
		})

		Convey("When the limit exceeds the cap", func() {
			resp, err := http.Get(srv.URL + "/leaderboard?family=streak&limit=5000")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit is missing", func() {
			resp, err := http.Get(srv.URL + "/leaderboard?family=streak")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the family is unknown", func() {
			resp, err := http.Get(srv.URL + "/leaderboard?family=karma&limit=10")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestPostEncourage(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := newFakeDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When an encouragement is requested", func() {
			body := `{"task_title":"Write the report","task_type":"create"}`
			resp, err := http.Post(srv.URL+"/encourage", "application/json", strings.NewReader(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a message referencing the task comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out struct {
					Message string `json:"message"`
				}
				So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
				So(out.Message, ShouldContainSubstring, "Write the report")
			})
		})

		Convey("When the title is missing", func() {
			resp, err := http.Post(srv.URL+"/encourage", "application/json", strings.NewReader(`{"task_type":"create"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := newFakeDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When stats are requested", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a pipeline snapshot comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out types.Stats
				So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
				So(out.Started, ShouldBeTrue)
				So(out.QueueLength, ShouldEqual, 0)
			})
		})
	})
}

func TestHealthz(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := newFakeDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When the health endpoint is scraped", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
