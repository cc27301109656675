package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/elorank/internal/domain/model"
	"github.com/okian/elorank/internal/domain/selection"
	"github.com/okian/elorank/internal/session"
	"github.com/okian/elorank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// scriptedJudge returns its choices in order, then quits.
type scriptedJudge struct {
	choices []session.Choice
	err     error
	asked   [][2]string
}

func (j *scriptedJudge) Choose(_ context.Context, first, second string) (session.Choice, error) {
	j.asked = append(j.asked, [2]string{first, second})
	if j.err != nil {
		return session.ChoiceInvalid, j.err
	}
	if len(j.choices) == 0 {
		return session.ChoiceQuit, nil
	}
	c := j.choices[0]
	j.choices = j.choices[1:]
	return c, nil
}

type memoryStore struct {
	saves int
	last  *model.Table
	err   error
}

func (m *memoryStore) Load(context.Context) (*model.Table, error) { return m.last, nil }

func (m *memoryStore) Save(_ context.Context, t *model.Table) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.last = t.Clone()
	return nil
}

type counter struct{ n int }

func (c *counter) Increment(context.Context) (int, error) {
	c.n++
	return c.n, nil
}

type reportSink struct{ writes int }

func (r *reportSink) Write(context.Context, *model.Table) error {
	r.writes++
	return nil
}

func newTable(names ...string) *model.Table {
	t, err := model.NewTable(names)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSession_Round(t *testing.T) {
	Convey("Given a session over three items", t, func() {
		ctx := context.Background()
		tbl := newTable("Chess", "Go", "Backgammon")
		judge := &scriptedJudge{choices: []session.Choice{session.ChoiceFirst}}
		store := &memoryStore{}
		cnt := &counter{}
		report := &reportSink{}

		s, err := session.New(tbl,
			session.WithSelector(selection.New(selection.WithSeed(1))),
			session.WithOutcomeSource(judge),
			session.WithTableStore(store),
			session.WithCounter(cnt),
			session.WithReport(report),
		)
		So(err, ShouldBeNil)
		So(s.ID(), ShouldNotBeEmpty)

		Convey("When the judge picks the first item", func() {
			more, err := s.Round(ctx)

			Convey("Then the first item wins 16 points", func() {
				So(err, ShouldBeNil)
				So(more, ShouldBeTrue)
				pair := judge.asked[0]
				So(pair[0], ShouldNotEqual, pair[1])
				w, _ := tbl.Get(pair[0])
				l, _ := tbl.Get(pair[1])
				So(w.Rating, ShouldEqual, 1016.0)
				So(l.Rating, ShouldEqual, 984.0)
				So(w.Comparisons, ShouldEqual, 1)
				So(l.Comparisons, ShouldEqual, 1)
			})

			Convey("And the table, counter and report are updated", func() {
				So(store.saves, ShouldEqual, 1)
				So(store.last.TotalComparisons(), ShouldEqual, 2)
				So(cnt.n, ShouldEqual, 1)
				So(report.writes, ShouldEqual, 1)
				So(s.Rounds(), ShouldEqual, 1)
				So(s.Stats()["totalComparisons"], ShouldEqual, 1)
			})
		})

		Convey("When the judge quits", func() {
			judge.choices = nil
			more, err := s.Round(ctx)

			Convey("Then nothing changes", func() {
				So(err, ShouldBeNil)
				So(more, ShouldBeFalse)
				So(tbl.TotalComparisons(), ShouldEqual, 0)
				So(store.saves, ShouldEqual, 0)
				So(cnt.n, ShouldEqual, 0)
			})
		})

		Convey("When the judge returns an invalid choice", func() {
			judge.choices = []session.Choice{session.ChoiceInvalid}
			_, err := s.Round(ctx)

			Convey("Then ErrInvalidOutcome is surfaced and the table is untouched", func() {
				So(errors.Is(err, session.ErrInvalidOutcome), ShouldBeTrue)
				So(tbl.TotalComparisons(), ShouldEqual, 0)
				So(store.saves, ShouldEqual, 0)
			})
		})

		Convey("When the judge fails", func() {
			boom := errors.New("tty gone")
			judge.err = boom
			_, err := s.Round(ctx)

			Convey("Then the error propagates", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})

		Convey("When saving fails", func() {
			store.err = errors.New("disk full")
			_, err := s.Round(ctx)

			Convey("Then the round fails and no metadata is written", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "disk full")
				So(cnt.n, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a session over a single item", t, func() {
		s, err := session.New(newTable("Solo"), session.WithOutcomeSource(&scriptedJudge{}))
		So(err, ShouldBeNil)

		Convey("Then a round fails with ErrInsufficientItems", func() {
			_, err := s.Round(context.Background())
			So(errors.Is(err, selection.ErrInsufficientItems), ShouldBeTrue)
		})
	})

	Convey("Given missing collaborators", t, func() {
		Convey("Then construction fails", func() {
			_, err := session.New(newTable("a", "b"))
			So(err, ShouldNotBeNil)
			_, err = session.New(nil, session.WithOutcomeSource(&scriptedJudge{}))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSession_Run(t *testing.T) {
	Convey("Given a judge that answers five times", t, func() {
		tbl := newTable("a", "b", "c", "d")
		judge := &scriptedJudge{choices: []session.Choice{
			session.ChoiceFirst, session.ChoiceSecond, session.ChoiceFirst,
			session.ChoiceSecond, session.ChoiceFirst,
		}}
		cnt := &counter{}
		s, err := session.New(tbl,
			session.WithSelector(selection.New(selection.WithSeed(3))),
			session.WithOutcomeSource(judge),
			session.WithCounter(cnt),
		)
		So(err, ShouldBeNil)

		Convey("When running to completion", func() {
			err := s.Run(context.Background())

			Convey("Then five rounds are recorded", func() {
				So(err, ShouldBeNil)
				So(s.Rounds(), ShouldEqual, 5)
				So(cnt.n, ShouldEqual, 5)
				So(tbl.TotalComparisons(), ShouldEqual, 10)
			})

			Convey("And least-picked balancing spreads exposure", func() {
				So(tbl.MinComparisons(), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := s.Run(ctx)

			Convey("Then Run stops before any round", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(s.Rounds(), ShouldEqual, 0)
			})
		})
	})
}

func TestChoice_Resolve(t *testing.T) {
	Convey("Given a pair", t, func() {
		Convey("Then first and second resolve to winner and loser", func() {
			w, l, err := session.ChoiceFirst.Resolve("a", "b")
			So(err, ShouldBeNil)
			So([]string{w, l}, ShouldResemble, []string{"a", "b"})
			w, l, err = session.ChoiceSecond.Resolve("a", "b")
			So(err, ShouldBeNil)
			So([]string{w, l}, ShouldResemble, []string{"b", "a"})
		})

		Convey("Then quit and invalid do not resolve", func() {
			_, _, err := session.ChoiceQuit.Resolve("a", "b")
			So(errors.Is(err, session.ErrInvalidOutcome), ShouldBeTrue)
			_, _, err = session.Choice(42).Resolve("a", "b")
			So(errors.Is(err, session.ErrInvalidOutcome), ShouldBeTrue)
		})
	})
}
