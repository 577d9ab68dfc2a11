package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/utils"
)

// ExtractText reads a document file and returns its raw text. Supported
// formats: .txt and .md (verbatim), .pdf, .xlsx.
func ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf":
		return extractPDF(path)
	case ".xlsx":
		return extractXLSX(path)
	default:
		return "", &utils.ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("unsupported file type %q", filepath.Ext(path)),
		}
	}
}

func extractPDF(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", &utils.ValidationError{Field: "file", Reason: fmt.Sprintf("failed to read PDF: %v", err)}
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("Failed to extract PDF page text", "path", path, "page", i, "error", err)
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

func extractXLSX(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", &utils.ValidationError{Field: "file", Reason: fmt.Sprintf("failed to read XLSX: %v", err)}
	}
	defer f.Close()

	var textBuilder strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", &utils.ValidationError{Field: "file", Reason: fmt.Sprintf("failed to read sheet %q: %v", sheet, err)}
		}
		for _, row := range rows {
			textBuilder.WriteString(strings.Join(row, " "))
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}
