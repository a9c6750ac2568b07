package catalog

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCount(t *testing.T) {
	Convey("Counts map to what a UI shows", t, func() {
		So(Disabled.Visibility(), ShouldResemble, Visibility{})
		So(Hidden.Visibility(), ShouldResemble, Visibility{Affordance: true})
		So(Count(0).Visibility(), ShouldResemble, Visibility{Affordance: true, Number: true})
		So(Count(12).Visibility(), ShouldResemble, Visibility{Affordance: true, Number: true})
	})

	Convey("Labels only show positive numbers", t, func() {
		So(Count(12).Label(), ShouldEqual, "12")
		So(Count(0).Label(), ShouldBeEmpty)
		So(Hidden.Label(), ShouldBeEmpty)
		So(Disabled.Label(), ShouldBeEmpty)
	})
}

func TestComment(t *testing.T) {
	Convey("Given a comment thread", t, func() {
		root := &Comment{
			Text: "root",
			Items: []*Comment{
				{Text: "a", Items: []*Comment{{Text: "a1"}}},
				{Text: "b", Votes: lo.ToPtr(3)},
			},
		}

		Convey("Walk visits depth first with depths", func() {
			var visited []string
			var depths []int
			root.Walk(func(c *Comment, depth int) bool {
				visited = append(visited, c.Text)
				depths = append(depths, depth)
				return true
			})
			So(visited, ShouldResemble, []string{"root", "a", "a1", "b"})
			So(depths, ShouldResemble, []int{0, 1, 2, 1})
		})

		Convey("Walk stops when told to", func() {
			var visited []string
			root.Walk(func(c *Comment, _ int) bool {
				visited = append(visited, c.Text)
				return c.Text != "a"
			})
			So(visited, ShouldResemble, []string{"root", "a"})
		})

		Convey("Votes are only visible when set", func() {
			So(root.VotesVisible(), ShouldBeFalse)
			So(root.Items[1].VotesVisible(), ShouldBeTrue)
		})
	})
}
