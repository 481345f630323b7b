package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/ragdocs/internal/handlers"
	"github.com/akolanti/ragdocs/internal/metrics"
	"github.com/akolanti/ragdocs/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)
var HealthHandler = Wrap(handlers.HealthHandler)

var UploadHandler = Wrap(handlers.UploadHandler)
var AskHandler = Wrap(handlers.AskHandler)
var DeleteHandler = Wrap(handlers.DeleteHandler)
var ListHandler = Wrap(handlers.ListHandler)
var ResetHandler = Wrap(handlers.ResetHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")

	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = rateLimiter(re)

	return re
}
