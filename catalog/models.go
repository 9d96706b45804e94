package catalog

// Film is the list projection of a film document.
type Film struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	IMDBRating float64 `json:"imdb_rating"`
}

// PersonRef names a person credited on a film.
type PersonRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FilmDetail is the full film document returned by id.
type FilmDetail struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	IMDBRating  float64     `json:"imdb_rating"`
	Description string      `json:"description"`
	Genre       []string    `json:"genre"`
	Actors      []PersonRef `json:"actors"`
	Writers     []PersonRef `json:"writers"`
	Directors   []PersonRef `json:"directors"`
}

// Person is a person document. FilmIDs links the person to the films index.
type Person struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
	FilmIDs  []string `json:"film_ids"`
}

// Genre is a genre document from the genre index.
type Genre struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
