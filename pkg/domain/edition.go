package domain

// DateLayout is the layout of edition date keys
const DateLayout = "2006-01-02"

// Article is the published shape of a selected item
type Article struct {
	Title             string `json:"title"`
	URL               string `json:"url"`
	PublishedAt       string `json:"publishedAt"`
	Source            string `json:"source"`
	Summary           string `json:"summary"`
	SimplifiedContent string `json:"simplifiedContent,omitempty"`
	GUID              string `json:"guid,omitempty"`
}

// Edition is one day's published set of articles, in ranking order
type Edition struct {
	Date     string    `json:"date"`
	Articles []Article `json:"articles"`
}

// History is the persisted root document, newest-written edition first
type History struct {
	Editions []Edition `json:"editions"`
}

// Latest returns the first edition, or false if the history is empty
func (h History) Latest() (Edition, bool) {
	if len(h.Editions) == 0 {
		return Edition{}, false
	}
	return h.Editions[0], true
}

// Find returns the edition for the given date key
func (h History) Find(date string) (Edition, bool) {
	for _, ed := range h.Editions {
		if ed.Date == date {
			return ed, true
		}
	}
	return Edition{}, false
}
