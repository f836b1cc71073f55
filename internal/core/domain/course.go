package domain

// CourseRecord is a raw course as produced by a scraper or data file.
// It is the external input schema: all fields are required except
// Curriculum, which may be empty.
type CourseRecord struct {
	// Title is the course title.
	Title string `json:"title" validate:"required"`

	// Description is the course description text.
	Description string `json:"description" validate:"required"`

	// Instructor is the course instructor's display name.
	Instructor string `json:"instructor" validate:"required"`

	// Price is the display price (e.g. "Free", "$49"). Kept as a string
	// because course listings mix currencies and "Free" labels.
	Price string `json:"price" validate:"required"`

	// Curriculum is the ordered list of curriculum section names.
	Curriculum []string `json:"curriculum"`

	// URL is the course page URL and the natural key for deduplication.
	URL string `json:"url" validate:"required"`
}

// CourseInfo is the compact course metadata carried through chunks and
// returned in search results. It never includes the full document text.
type CourseInfo struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Price      string `json:"price"`
	Instructor string `json:"instructor"`
}

// Info returns the retrieval metadata for the record.
func (r CourseRecord) Info() CourseInfo {
	return CourseInfo{
		Title:      r.Title,
		URL:        r.URL,
		Price:      r.Price,
		Instructor: r.Instructor,
	}
}

// DedupeByURL removes duplicate records sharing a URL, keeping the last
// occurrence. Scrapers re-emit a course when a listing page and a detail
// page both yield it; the later record carries the richer detail fields.
// Relative order of the surviving records is preserved.
func DedupeByURL(records []CourseRecord) []CourseRecord {
	last := make(map[string]int, len(records))
	for i, r := range records {
		last[r.URL] = i
	}

	deduped := make([]CourseRecord, 0, len(last))
	for i, r := range records {
		if last[r.URL] == i {
			deduped = append(deduped, r)
		}
	}
	return deduped
}
