package ledger

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/travigo/rerdelay/pkg/ctdf"
)

func ReadRaw(path string) ([]ctdf.PollSummary, error) {
	var rows []ctdf.PollSummary
	if err := readCSV(path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func ReadDaily(path string) ([]ctdf.DailyBin, error) {
	var bins []ctdf.DailyBin
	if err := readCSV(path, &bins); err != nil {
		return nil, err
	}
	return bins, nil
}

func readCSV(path string, destination interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	if err := gocsv.UnmarshalFile(file, destination); err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return &IOError{Op: "parse", Path: path, Err: err}
	}

	return nil
}

// writeCSV replaces path as a whole: the rows go to a temporary file in the same
// directory which is then renamed over the target
func writeCSV(path string, rows interface{}) error {
	directory := filepath.Dir(path)
	if err := ensureDirectory(directory); err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(directory, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tempName := tempFile.Name()

	if err := gocsv.MarshalFile(rows, tempFile); err != nil {
		tempFile.Close()
		os.Remove(tempName)
		return &IOError{Op: "write", Path: path, Err: err}
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempName)
		return &IOError{Op: "write", Path: path, Err: err}
	}

	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName)
		return &IOError{Op: "rename", Path: path, Err: err}
	}

	return nil
}
