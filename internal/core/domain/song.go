package domain

// Song is the canonical projection of a catalog track returned to clients.
// ImageURL and PreviewURL are optional and omitted from JSON when absent.
type Song struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	SpotifyURL string `json:"spotifyUrl"`
	ImageURL   string `json:"imageUrl,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// MoodAnalysis holds the genre keywords inferred from a free-text mood.
// Genres is ordered and always has exactly five entries.
type MoodAnalysis struct {
	Genres []string `json:"genres"`
}

// Recommendations is the response body for a mood query.
type Recommendations struct {
	DetectedMood string `json:"detectedMood"`
	Songs        []Song `json:"songs"`
	User         *User  `json:"user,omitempty"`
}
