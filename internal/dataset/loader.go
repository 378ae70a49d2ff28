package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// LoadRecoCSV reads a recommendation table from a CSV file with a header
// containing the user_id, item_id and rank columns.
func LoadRecoCSV(path string) ([]RecoRow, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	userIdx, err := columnIndex(header, ColUser)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	itemIdx, err := columnIndex(header, ColItem)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rankIdx, err := columnIndex(header, ColRank)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rows := make([]RecoRow, 0, len(records))
	for i, rec := range records {
		rank, err := strconv.Atoi(rec[rankIdx])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: invalid rank %q: %w", path, i+1, rec[rankIdx], err)
		}
		rows = append(rows, RecoRow{
			User: rec[userIdx],
			Item: rec[itemIdx],
			Rank: rank,
		})
	}
	return rows, nil
}

// LoadInteractionsCSV reads an interaction table from a CSV file with a
// header containing the user_id and item_id columns.
func LoadInteractionsCSV(path string) ([]Interaction, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	userIdx, err := columnIndex(header, ColUser)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	itemIdx, err := columnIndex(header, ColItem)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rows := make([]Interaction, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Interaction{
			User: rec[userIdx],
			Item: rec[itemIdx],
		})
	}
	return rows, nil
}

func readCSV(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: missing header row", path)
	}
	return records[1:], records[0], nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if col == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing required column %q", name)
}
