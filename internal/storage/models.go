package storage

import "github.com/johanforsgren/repodeck/internal/domain"

// record is the persisted shape of one tracked repository. The nested data
// object matches lists written by earlier versions of the dashboard.
type record struct {
	Data recordData `json:"data"`
}

type recordData struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func toRecords(repos []domain.TrackedRepository) []record {
	records := make([]record, len(repos))
	for i, r := range repos {
		records[i] = record{Data: recordData{Name: r.Name, URL: r.URL}}
	}
	return records
}

func fromRecords(records []record) []domain.TrackedRepository {
	repos := make([]domain.TrackedRepository, 0, len(records))
	for _, r := range records {
		repos = append(repos, domain.TrackedRepository{Name: r.Data.Name, URL: r.Data.URL})
	}
	return repos
}
