package bleve

import (
	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"

	"github.com/bobinette/bugtrack"
)

// BugIndex is a full-text index over bug titles and descriptions,
// kept in sync by the bug store.
type BugIndex struct {
	index bleve.Index
}

// Open opens the index at path, creating it if needed.
func (s *BugIndex) Open(path string) error {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, buildMapping())
	}
	if err != nil {
		return err
	}

	s.index = index
	return nil
}

func (s *BugIndex) Close() error {
	if s.index == nil {
		return nil
	}

	return s.index.Close()
}

func (s *BugIndex) Index(b bugtrack.Bug) error {
	data := map[string]interface{}{
		"title":       b.Title,
		"description": b.Description,
		"projectID":   b.ProjectID,
	}

	return s.index.Index(b.ID, data)
}

func (s *BugIndex) Delete(bugID string) error {
	return s.index.Delete(bugID)
}

// Search answers the ids of the bugs of the project matching q, best
// match first.
func (s *BugIndex) Search(projectID, q string) ([]string, error) {
	title := bleve.NewMatchQuery(q)
	title.SetField("title")
	description := bleve.NewMatchQuery(q)
	description.SetField("description")
	text := bleve.NewDisjunctionQuery(title, description)

	project := query.NewTermQuery(projectID)
	project.SetField("projectID")

	searchRequest := bleve.NewSearchRequest(bleve.NewConjunctionQuery(text, project))

	searchResults, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		ids = append(ids, hit.ID)
	}

	return ids, nil
}

func buildMapping() mapping.IndexMapping {
	bugMapping := bleve.NewDocumentMapping()

	text := bleve.NewTextFieldMapping()
	bugMapping.AddFieldMappingsAt("title", text)
	bugMapping.AddFieldMappingsAt("description", text)

	projectID := bleve.NewTextFieldMapping()
	projectID.Analyzer = keyword.Name
	bugMapping.AddFieldMappingsAt("projectID", projectID)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = bugMapping
	return m
}
