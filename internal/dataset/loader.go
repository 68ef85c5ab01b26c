package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Score domain for rating events. Values outside are malformed, not clamped.
const (
	ScoreMin = 0.0
	ScoreMax = 5.0
)

// encodingSniffLen is how many bytes are inspected to decide whether a file
// is UTF-8. Non-UTF-8 files are decoded as Windows-1252, which covers the
// Latin-1 exports seen in the wild for this dataset.
const encodingSniffLen = 64 * 1024

// lz4Extension marks inputs that are LZ4-compressed CSV.
const lz4Extension = ".lz4"

// Column counts for the three source files.
const (
	titleColumns  = 3
	ratingColumns = 4
	tagColumns    = 4
)

// ErrEmptyFile is returned when a source file contains no header row.
var ErrEmptyFile = errors.New("dataset: file has no header row")

// LoadStats accounts for every skipped row so malformed input is never
// silently dropped.
type LoadStats struct {
	Titles         int
	Ratings        int
	Tags           int
	SkippedTitles  int
	SkippedRatings int
	SkippedTags    int
}

// Skipped returns the total number of skipped rows across all files.
func (s LoadStats) Skipped() int {
	return s.SkippedTitles + s.SkippedRatings + s.SkippedTags
}

// Loader reads the three source CSV files into memory.
type Loader struct {
	log *slog.Logger
}

// NewLoader creates a Loader logging through the given logger.
func NewLoader(log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}

	return &Loader{log: log}
}

// Load reads titles, rating events, and tag events from the given paths.
// Malformed rows are skipped and counted in the returned stats.
func (l *Loader) Load(titlesPath, ratingsPath, tagsPath string) ([]Title, []RatingEvent, []TagEvent, LoadStats, error) {
	var stats LoadStats

	titles, err := l.loadTitles(titlesPath, &stats)
	if err != nil {
		return nil, nil, nil, stats, fmt.Errorf("load titles: %w", err)
	}

	ratings, err := l.loadRatings(ratingsPath, &stats)
	if err != nil {
		return nil, nil, nil, stats, fmt.Errorf("load ratings: %w", err)
	}

	tags, err := l.loadTags(tagsPath, &stats)
	if err != nil {
		return nil, nil, nil, stats, fmt.Errorf("load tags: %w", err)
	}

	stats.Titles = len(titles)
	stats.Ratings = len(ratings)
	stats.Tags = len(tags)

	return titles, ratings, tags, stats, nil
}

func (l *Loader) loadTitles(path string, stats *LoadStats) ([]Title, error) {
	var titles []Title

	err := l.readCSV(path, titleColumns, func(row []string) bool {
		id, idErr := strconv.ParseInt(row[0], 10, 64)
		if idErr != nil {
			return false
		}

		name := row[1]
		year, known := ExtractYear(name)

		titles = append(titles, Title{
			ID:        id,
			Name:      name,
			Year:      year,
			YearKnown: known,
			Genres:    SplitGenres(row[2]),
		})

		return true
	}, &stats.SkippedTitles)
	if err != nil {
		return nil, err
	}

	return titles, nil
}

func (l *Loader) loadRatings(path string, stats *LoadStats) ([]RatingEvent, error) {
	var ratings []RatingEvent

	err := l.readCSV(path, ratingColumns, func(row []string) bool {
		userID, userErr := strconv.ParseInt(row[0], 10, 64)
		titleID, titleErr := strconv.ParseInt(row[1], 10, 64)
		score, scoreErr := strconv.ParseFloat(row[2], 64)

		if userErr != nil || titleErr != nil || scoreErr != nil {
			return false
		}

		if score < ScoreMin || score > ScoreMax {
			return false
		}

		ratings = append(ratings, RatingEvent{
			UserID:    userID,
			TitleID:   titleID,
			Score:     score,
			Timestamp: parseTimestamp(row[3]),
		})

		return true
	}, &stats.SkippedRatings)
	if err != nil {
		return nil, err
	}

	return ratings, nil
}

func (l *Loader) loadTags(path string, stats *LoadStats) ([]TagEvent, error) {
	// Tag events are optional; an empty path yields none.
	if path == "" {
		return nil, nil
	}

	var tags []TagEvent

	err := l.readCSV(path, tagColumns, func(row []string) bool {
		userID, userErr := strconv.ParseInt(row[0], 10, 64)
		titleID, titleErr := strconv.ParseInt(row[1], 10, 64)

		if userErr != nil || titleErr != nil || row[2] == "" {
			return false
		}

		tags = append(tags, TagEvent{
			UserID:    userID,
			TitleID:   titleID,
			Tag:       row[2],
			Timestamp: parseTimestamp(row[3]),
		})

		return true
	}, &stats.SkippedTags)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

// readCSV streams rows from path, calling parse for each data row. Rows that
// are short or that parse rejects are counted in skipped.
func (l *Loader) readCSV(path string, minColumns int, parse func(row []string) bool, skipped *int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.EqualFold(filepath.Ext(path), lz4Extension) {
		src = lz4.NewReader(f)
	}

	decoded, encoding, err := decodeReader(src)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if encoding != "utf-8" {
		l.log.Debug("non-utf8 source file", "path", path, "encoding", encoding)
	}

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	// Header row.
	_, err = reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s", ErrEmptyFile, path)
		}

		return fmt.Errorf("read header %s: %w", path, err)
	}

	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			*skipped++

			continue
		}

		if len(row) < minColumns || !parse(row) {
			*skipped++
		}
	}

	return nil
}

// decodeReader sniffs the first bytes of src and returns a reader producing
// UTF-8, together with the detected source encoding name. The fallback chain
// mirrors the dataset's historical export encodings: UTF-8, then Windows-1252
// (a practical superset of Latin-1 / ISO-8859-1).
func decodeReader(src io.Reader) (io.Reader, string, error) {
	buffered := bufio.NewReaderSize(src, encodingSniffLen)

	sample, err := buffered.Peek(encodingSniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("sniff encoding: %w", err)
	}

	if utf8Sample(sample) {
		return buffered, "utf-8", nil
	}

	return transform.NewReader(buffered, charmap.Windows1252.NewDecoder()), "windows-1252", nil
}

// utf8Sample reports whether the sample is valid UTF-8, ignoring a rune that
// may be truncated at the sample boundary.
func utf8Sample(sample []byte) bool {
	for trimmed := 0; trimmed < utf8.UTFMax && len(sample) > 0; trimmed++ {
		if utf8.Valid(sample) {
			return true
		}

		sample = sample[:len(sample)-1]
	}

	return utf8.Valid(sample)
}

// parseTimestamp accepts the dataset's epoch-seconds timestamps. Unparseable
// values yield the zero time; the timestamp is informational, never filtered on.
func parseTimestamp(raw string) time.Time {
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}

	return time.Unix(secs, 0).UTC()
}
