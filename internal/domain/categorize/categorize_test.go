package categorize_test

import (
	"testing"

	"github.com/okian/huddle/internal/domain/categorize"
	"github.com/okian/huddle/internal/domain/taxonomy"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEngine_Infer(t *testing.T) {
	Convey("Given a categorization engine over the built-in taxonomy", t, func() {
		engine := categorize.New()

		Convey("When the text names a single category literally", func() {
			got := engine.Infer("Vegan potluck", "bring a dish", []string{"vegan"})

			Convey("Then that category should win", func() {
				So(got, ShouldEqual, taxonomy.Vegan)
			})
		})

		Convey("When a phrase also matches through a shorter keyword", func() {
			// hunting (2+1) + hunt (2+1) + first word of "hunting season" (1)
			a := engine.Analyze("Texas Hunting Club Meeting", "Monthly meeting for hunting enthusiasts.", nil)

			Convey("Then both matches should count", func() {
				So(a.Category, ShouldEqual, taxonomy.Hunting)
				So(a.Source, ShouldEqual, categorize.SourceKeyword)
				So(a.Scores[0], ShouldResemble, categorize.CategoryScore{Category: taxonomy.Hunting, Score: 7})
			})
		})

		Convey("When cooking keywords outnumber vegan keywords", func() {
			a := engine.Analyze("Vegan Cooking Workshop", "Learn to cook delicious plant-based meals", []string{"vegan", "cooking"})

			Convey("Then the higher keyword score should win", func() {
				So(a.Category, ShouldEqual, taxonomy.Cooking)
				So(a.Scores[0].Score, ShouldEqual, 9)
			})

			Convey("And the runner-up should be offered as a suggestion", func() {
				So(a.Suggestions, ShouldHaveLength, 3)
				So(a.Suggestions[1], ShouldEqual, taxonomy.Vegan)
				So(a.Scores[1].Score, ShouldEqual, 7)
			})
		})

		Convey("When the text is empty", func() {
			a := engine.Analyze("", "", nil)

			Convey("Then the default category should be returned", func() {
				So(a.Category, ShouldEqual, taxonomy.CommunityService)
				So(a.Source, ShouldEqual, categorize.SourceDefault)
				So(a.Suggestions, ShouldBeEmpty)
			})
		})

		Convey("When only whitespace is given", func() {
			So(engine.Infer("   ", "\t", []string{" "}), ShouldEqual, taxonomy.CommunityService)
		})

		Convey("When no keyword matches but a context trigger does", func() {
			Convey("Then the first matching rule should apply", func() {
				a := engine.Analyze("Quiet evening", "learn something", nil)
				So(a.Category, ShouldEqual, taxonomy.Education)
				So(a.Source, ShouldEqual, categorize.SourceContext)

				So(engine.Infer("Park stroll", "", nil), ShouldEqual, taxonomy.OutdoorSports)
			})
		})
	})
}

func TestEngine_Suggest(t *testing.T) {
	Convey("Given a categorization engine", t, func() {
		engine := categorize.New()

		Convey("When several categories tie", func() {
			got := engine.Suggest("Team game", "", nil)

			Convey("Then taxonomy order should break the tie", func() {
				So(got, ShouldResemble, []string{"Sports", taxonomy.Hunting, "Gaming"})
			})
		})

		Convey("When only one category scores", func() {
			got := engine.Suggest("Hackathon", "", nil)

			Convey("Then only that category should be suggested", func() {
				So(got, ShouldResemble, []string{taxonomy.Technology})
			})
		})

		Convey("When nothing scores", func() {
			got := engine.Suggest("Park stroll", "", nil)

			Convey("Then no contextual fallback should be applied", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When many categories score", func() {
			got := engine.Suggest("Community art music dance festival", "volunteer fitness workshop", []string{"tech", "film"})

			Convey("Then at most three suggestions should be returned", func() {
				So(len(got), ShouldBeLessThanOrEqualTo, 3)
				So(got, ShouldNotBeEmpty)
			})
		})
	})
}

func TestEngine_Options(t *testing.T) {
	Convey("Given an engine with a custom taxonomy", t, func() {
		engine := categorize.New(
			categorize.WithCategories([]taxonomy.Category{
				{Name: "Alpha", Keywords: []string{"shared"}},
				{Name: "Beta", Keywords: []string{"shared", "Board Games"}},
			}),
			categorize.WithMaxSuggestions(1),
		)

		Convey("When keywords use mixed case", func() {
			got := engine.Analyze("BOARD games night", "", nil)

			Convey("Then matching should be case-insensitive", func() {
				So(got.Category, ShouldEqual, "Beta")
				So(got.Scores[0].Score, ShouldEqual, 3)
			})
		})

		Convey("When two categories tie", func() {
			got := engine.Suggest("shared", "", nil)

			Convey("Then the limit and tie-break should apply", func() {
				So(got, ShouldResemble, []string{"Alpha"})
			})
		})
	})
}
