package extract

import (
	"errors"
	"time"

	"github.com/akolanti/ragdocs/internal/domain/ragerr"
	"github.com/dslipak/pdf"
)

func extractPDF(path string) ([]Segment, error) {
	log := getLogger()
	log.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		log.Error("failed opening of pdf file", "error", err)
		return nil, &ragerr.ExtractionError{Err: err}
	}

	var pages []Segment
	numPages := f.NumPage()
	log.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			log.Debug("extractPDF", "null page value at", i)
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// Log warning but continue with other pages
			log.Error("Error parsing page content", "page", i, "error", err)
			continue
		}

		pages = append(pages, Segment{
			Page:    i,
			Content: content,
		})
	}
	return pages, nil
}

// protectExtract guards GetPlainText with a timeout; the parser can hang on
// malformed content streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		getLogger().Error("pageExtract", "timeout", page)
		return "", errors.New("timeout")
	}
}
