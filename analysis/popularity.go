package analysis

import "github.com/ejacobg/friendgraph/graph"

// Popularity pairs a person with the number of friends they have.
type Popularity struct {
	Person  string `json:"person"`
	Friends int    `json:"friends"`
}

// Degrees returns the number of outgoing friendship edges of every person in
// enumeration order.
func Degrees(view graph.View) []Popularity {
	people := view.People()
	out := make([]Popularity, 0, len(people))
	for _, person := range people {
		out = append(out, Popularity{Person: person, Friends: len(view.Friends(person))})
	}
	return out
}

// MostPopular returns every person whose friend count equals the maximum,
// in enumeration order. Ties are all reported. An empty graph yields an
// empty result.
func MostPopular(view graph.View) []Popularity {
	degrees := Degrees(view)

	most := -1
	for _, d := range degrees {
		if d.Friends > most {
			most = d.Friends
		}
	}

	top := make([]Popularity, 0, 1)
	for _, d := range degrees {
		if d.Friends == most {
			top = append(top, d)
		}
	}
	return top
}
