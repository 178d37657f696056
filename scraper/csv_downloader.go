// scraper/csv_downloader.go
package scraper

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mwenda/sf311-elt/config"
)

// DownloadFile downloads a file from a URL and saves it to a local path.
func DownloadFile(url string, localSavePath string) error {
	log.Printf("Attempting to download file from URL: %s to local path: %s\n", url, localSavePath)

	// The full dataset export runs to hundreds of megabytes.
	client := http.Client{
		Timeout: 15 * time.Minute,
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download file from %s: received status code %d", url, resp.StatusCode)
	}

	dir := filepath.Dir(localSavePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	outFile, err := os.Create(localSavePath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localSavePath, err)
	}
	defer outFile.Close()

	if _, err = io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to copy downloaded content to %s: %w", localSavePath, err)
	}

	log.Printf("Successfully downloaded %s to %s\n", url, localSavePath)
	return nil
}

// DownloadExportCsv downloads the full-dataset CSV export configured under
// csv_export and returns the local path of the downloaded file.
func DownloadExportCsv() (string, error) {
	exportURL := config.AppConfig.CSVExport.URL
	localPath := config.AppConfig.CSVExport.LocalPath

	if exportURL == "" {
		return "", fmt.Errorf("CSV export URL is not configured")
	}
	if localPath == "" {
		return "", fmt.Errorf("local save path for the CSV export is not configured")
	}

	if err := DownloadFile(exportURL, localPath); err != nil {
		return "", fmt.Errorf("failed to download CSV export: %w", err)
	}
	return localPath, nil
}
