package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/okian/elorank/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewTable(t *testing.T) {
	convey.Convey("Given a list of item names", t, func() {
		names := []string{"chess", "go", "shogi"}

		convey.Convey("When creating a table", func() {
			tbl, err := model.NewTable(names)

			convey.Convey("Then every item gets the default record", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(tbl.Len(), convey.ShouldEqual, 3)
				convey.So(tbl.Names(), convey.ShouldResemble, names)
				for _, it := range tbl.Items() {
					convey.So(it.Rating, convey.ShouldEqual, model.DefaultRating)
					convey.So(it.Comparisons, convey.ShouldEqual, 0)
				}
			})
		})

		convey.Convey("When a name repeats", func() {
			_, err := model.NewTable([]string{"chess", "chess"})

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrDuplicateItem), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a name is blank", func() {
			_, err := model.NewTable([]string{"chess", "  "})

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidItem), convey.ShouldBeTrue)
			})
		})
	})
}

func TestTable_Put(t *testing.T) {
	convey.Convey("Given an empty table", t, func() {
		tbl, err := model.NewTable(nil)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When putting a non-finite rating", func() {
			err := tbl.Put(model.Item{Name: "x", Rating: math.Inf(1)})

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidItem), convey.ShouldBeTrue)
				convey.So(tbl.Len(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When putting a negative comparison count", func() {
			err := tbl.Put(model.Item{Name: "x", Rating: 1000, Comparisons: -1})

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidItem), convey.ShouldBeTrue)
			})
		})
	})
}

func TestTable_Lookups(t *testing.T) {
	convey.Convey("Given a populated table", t, func() {
		tbl, err := model.NewTable(nil)
		convey.So(err, convey.ShouldBeNil)
		convey.So(tbl.Put(model.Item{Name: "a", Rating: 1000, Comparisons: 3}), convey.ShouldBeNil)
		convey.So(tbl.Put(model.Item{Name: "b", Rating: 1100, Comparisons: 1}), convey.ShouldBeNil)
		convey.So(tbl.Put(model.Item{Name: "c", Rating: 1000, Comparisons: 2}), convey.ShouldBeNil)

		convey.Convey("Then Get returns a copy", func() {
			it, err := tbl.Get("b")
			convey.So(err, convey.ShouldBeNil)
			it.Rating = 0
			again, _ := tbl.Get("b")
			convey.So(again.Rating, convey.ShouldEqual, 1100)
		})

		convey.Convey("Then unknown names fail", func() {
			_, err := tbl.Get("zzz")
			convey.So(errors.Is(err, model.ErrUnknownItem), convey.ShouldBeTrue)
			_, err = tbl.Apply("zzz", 1)
			convey.So(errors.Is(err, model.ErrUnknownItem), convey.ShouldBeTrue)
		})

		convey.Convey("Then MinComparisons finds the least seen item count", func() {
			convey.So(tbl.MinComparisons(), convey.ShouldEqual, 1)
			convey.So(tbl.TotalComparisons(), convey.ShouldEqual, 6)
		})

		convey.Convey("Then Ranked sorts by rating and keeps insertion order on ties", func() {
			convey.So(tbl.RankedNames(), convey.ShouldResemble, []string{"b", "a", "c"})
			top := tbl.TopN(2)
			convey.So(len(top), convey.ShouldEqual, 2)
			convey.So(top[0].Name, convey.ShouldEqual, "b")
			convey.So(len(tbl.TopN(0)), convey.ShouldEqual, 3)
			convey.So(len(tbl.TopN(99)), convey.ShouldEqual, 3)
		})

		convey.Convey("Then Apply sets the rating and bumps the count", func() {
			it, err := tbl.Apply("a", 1016)
			convey.So(err, convey.ShouldBeNil)
			convey.So(it.Rating, convey.ShouldEqual, 1016)
			convey.So(it.Comparisons, convey.ShouldEqual, 4)
		})

		convey.Convey("Then Clone shares no state", func() {
			c := tbl.Clone()
			_, err := c.Apply("a", 2000)
			convey.So(err, convey.ShouldBeNil)
			orig, _ := tbl.Get("a")
			convey.So(orig.Rating, convey.ShouldEqual, 1000)
			convey.So(orig.Comparisons, convey.ShouldEqual, 3)
		})

		convey.Convey("Then EnsureItems only adds missing names", func() {
			added, err := tbl.EnsureItems([]string{"a", "d", "e"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(added, convey.ShouldResemble, []string{"d", "e"})
			d, _ := tbl.Get("d")
			convey.So(d.Rating, convey.ShouldEqual, model.DefaultRating)
			convey.So(d.Comparisons, convey.ShouldEqual, 0)
			convey.So(tbl.Len(), convey.ShouldEqual, 5)
		})
	})
}
