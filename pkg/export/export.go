package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"blogfinder/pkg/models"
)

// ErrNoRecords is returned by Write when there is nothing to export
var ErrNoRecords = errors.New("no records to export")

// Columns is the CSV header, in order
var Columns = []string{
	"blog_name",
	"blog_url",
	"title",
	"description",
	"follower_count",
	"total_posts",
	"last_post_date",
	"location_match_term",
	"location_match_source",
	"blog_tags",
	"theme_matched",
}

// Paths are the files a Write produced
type Paths struct {
	JSON string
	CSV  string
}

// Row is the exported form of a qualifying record
type Row struct {
	BlogName            string   `json:"blog_name"`
	BlogURL             string   `json:"blog_url"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	FollowerCount       int      `json:"follower_count"`
	TotalPosts          int      `json:"total_posts"`
	LastPostDate        string   `json:"last_post_date"`
	LocationMatchTerm   string   `json:"location_match_term"`
	LocationMatchSource string   `json:"location_match_source"`
	BlogTags            []string `json:"blog_tags"`
	ThemeMatched        string   `json:"theme_matched"`
}

// NewRow converts a record into its exported form
func NewRow(r models.QualifyingRecord) Row {
	tags := r.Profile.Tags
	if tags == nil {
		tags = []string{}
	}
	return Row{
		BlogName:            r.Profile.Name,
		BlogURL:             r.Profile.URL,
		Title:               r.Profile.Title,
		Description:         r.Profile.Description,
		FollowerCount:       r.Profile.Followers,
		TotalPosts:          r.Profile.TotalPosts,
		LastPostDate:        r.LastPostDate(),
		LocationMatchTerm:   r.LocationTerm,
		LocationMatchSource: r.LocationSource,
		BlogTags:            tags,
		ThemeMatched:        r.Theme,
	}
}

func (r Row) csvRecord() []string {
	return []string{
		r.BlogName,
		r.BlogURL,
		r.Title,
		r.Description,
		strconv.Itoa(r.FollowerCount),
		strconv.Itoa(r.TotalPosts),
		r.LastPostDate,
		r.LocationMatchTerm,
		r.LocationMatchSource,
		strings.Join(r.BlogTags, ", "),
		r.ThemeMatched,
	}
}

// Write exports records to base+".json" and base+".csv". With no records
// nothing is written and ErrNoRecords is returned. The export is all or
// nothing: when the CSV cannot be written the JSON file is removed again.
func Write(base string, records []models.QualifyingRecord) (Paths, error) {
	if len(records) == 0 {
		return Paths{}, ErrNoRecords
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Paths{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	paths := Paths{JSON: base + ".json", CSV: base + ".csv"}
	if err := WriteJSON(paths.JSON, records); err != nil {
		return Paths{}, err
	}
	if err := WriteCSV(paths.CSV, records); err != nil {
		os.Remove(paths.JSON)
		return Paths{}, err
	}
	return paths, nil
}

// WriteJSON writes records as an indented JSON array
func WriteJSON(path string, records []models.QualifyingRecord) error {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = NewRow(r)
	}
	return atomicWrite(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(rows)
	})
}

// WriteCSV writes records as CSV with a header row
func WriteCSV(path string, records []models.QualifyingRecord) error {
	return atomicWrite(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(Columns); err != nil {
			return err
		}
		for _, r := range records {
			if err := cw.Write(NewRow(r).csvRecord()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// atomicWrite writes through a temporary file renamed into place, so a
// reader never sees a half-written export.
func atomicWrite(path string, write func(io.Writer) error) error {
	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	err = write(out)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
