package intent

// Priority holds the per-field weights used by the book scorer.
type Priority struct {
	Author      float64
	Title       float64
	Category    float64
	Description float64
	ISBN        float64
}

var priorities = map[Intent]Priority{
	Author:   {Author: 1.0, Title: 0.2, Category: 0.1, Description: 0.05, ISBN: 0.0},
	ISBN:     {Author: 0.0, Title: 0.0, Category: 0.0, Description: 0.0, ISBN: 1.0},
	Category: {Author: 0.1, Title: 0.3, Category: 1.0, Description: 0.8, ISBN: 0.0},
	Title:    {Author: 0.2, Title: 1.0, Category: 0.1, Description: 0.5, ISBN: 0.0},
	Mixed:    {Author: 0.6, Title: 0.8, Category: 0.5, Description: 0.4, ISBN: 0.0},
}

// PriorityFor returns the fixed weights for i. Values outside the enum get
// the Title weights.
func PriorityFor(i Intent) Priority {
	if p, ok := priorities[i]; ok {
		return p
	}
	return priorities[Title]
}
