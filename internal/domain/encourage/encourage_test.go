package encourage_test

import (
	"strings"
	"sync"
	"testing"

	encourage "github.com/HenryVantieghem/tierline/internal/domain/encourage"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		gen := encourage.New(encourage.WithSeed(42))

		Convey("When generating for a task", func() {
			msg := gen.Generate("Write launch email", encourage.TypeCommunicate)

			Convey("Then the sentence references the title", func() {
				So(msg, ShouldContainSubstring, "Write launch email")
			})

			Convey("And it has opener, hint and closer", func() {
				// Fragments are joined by single spaces and each ends
				// with punctuation.
				So(strings.Count(msg, "."), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})

		Convey("When generating twice with the same seed", func() {
			a := encourage.New(encourage.WithSeed(7)).Generate("Plan sprint", encourage.TypeCoordinate)
			b := encourage.New(encourage.WithSeed(7)).Generate("Plan sprint", encourage.TypeCoordinate)

			Convey("Then output is deterministic", func() {
				So(a, ShouldEqual, b)
			})
		})

		Convey("When the task type is unknown", func() {
			msg := gen.Generate("Mystery task", encourage.TaskType("ponder"))

			Convey("Then it still produces a sentence", func() {
				So(msg, ShouldNotBeBlank)
				So(msg, ShouldContainSubstring, "Mystery task")
			})
		})
	})
}

func TestGenerateConcurrent(t *testing.T) {
	Convey("Given one generator shared by many goroutines", t, func() {
		gen := encourage.New()

		Convey("When they generate in parallel", func() {
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						gen.Generate("Shared task", encourage.TypeCreate)
					}
				}()
			}
			wg.Wait()

			Convey("Then the generator still produces sentences", func() {
				So(gen.Generate("Shared task", encourage.TypeCreate), ShouldContainSubstring, "Shared task")
			})
		})
	})
}

func TestParseTaskType(t *testing.T) {
	Convey("Given task type strings", t, func() {
		Convey("When parsing known types", func() {
			for _, s := range []string{"create", " Communicate ", "CONSUME", "coordinate"} {
				_, err := encourage.ParseTaskType(s)
				So(err, ShouldBeNil)
			}
		})

		Convey("When parsing an unknown type", func() {
			_, err := encourage.ParseTaskType("ponder")
			So(err, ShouldWrap, encourage.ErrUnknownTaskType)
		})
	})
}
