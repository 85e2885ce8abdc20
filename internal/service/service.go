package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store"
	"gitlab.com/dirk.krummacker/phonebook-service/pkg/model"
)

// infoDateLayout renders the server time on the info page.
const infoDateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// Options configure the router.
type Options struct {
	// StaticDir is served at the root path for requests that match no API route.
	StaticDir string

	// RequestLogging turns the per-request log record on or off.
	RequestLogging bool

	// Now returns the time shown on the info page. Defaults to time.Now.
	Now func() time.Time
}

// handler holds everything the endpoints need. There is one handler per router.
type handler struct {
	entries   store.Store
	logger    *slog.Logger
	staticDir string
	now       func() time.Time
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(entries store.Store, logger *slog.Logger, options Options) *gin.Engine {
	h := &handler{
		entries:   entries,
		logger:    logger,
		staticDir: options.StaticDir,
		now:       options.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}

	requests := metrics.NewSet()
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(cors.Default())
	if options.RequestLogging {
		router.Use(requestLogger(logger))
	} else {
		logger.Info("turning off HTTP request logging")
	}
	router.Use(meterRequests(requests))

	router.GET("/metrics", func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		requests.WritePrometheus(c.Writer)
		metrics.WriteProcessMetrics(c.Writer)
	})
	router.GET("/info", h.info)
	router.GET("/api/persons", h.findPersons)
	router.POST("/api/persons", h.createPerson)
	router.GET("/api/persons/:id", h.findPersonByID)
	router.PUT("/api/persons/:id", h.updatePersonByID)
	router.DELETE("/api/persons/:id", h.deletePersonByID)
	router.NoRoute(h.staticOrUnknown)
	return router
}

// findPersons responds with the list of all persons as JSON.
//
// REST API call:
//
//	> curl "http://localhost:3002/api/persons"
func (h *handler) findPersons(c *gin.Context) {
	entries, err := h.entries.List(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// info responds with a small HTML page that tells how many persons are stored and the current
// server time.
//
// REST API call:
//
//	> curl "http://localhost:3002/info"
func (h *handler) info(c *gin.Context) {
	entries, err := h.entries.List(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	html := fmt.Sprintf("<p>Phonebook has info for %d people</p><p>%s</p>",
		len(entries), h.now().Format(infoDateLayout))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// findPersonByID locates the person whose id matches the id parameter of the request URL, then
// returns that person as a response. An unknown id is answered with an empty 404.
//
// Example REST API call:
//
//	> curl http://localhost:3002/api/persons/56
func (h *handler) findPersonByID(c *gin.Context) {
	entry, err := h.entries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// createPerson inserts the person specified in the request's JSON. It responds with the full
// person including the newly assigned id.
//
// Example REST API call:
//
//	> curl http://localhost:3002/api/persons --request "POST" --include --header "Content-Type: application/json" --data '{"name": "Mary Jane", "number": "111-2222"}'
func (h *handler) createPerson(c *gin.Context) {
	var submitted model.Person
	if !h.bindPerson(c, &submitted) {
		return
	}
	entry, err := h.entries.Create(c.Request.Context(), submitted.Name, submitted.Number)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.logger.Info("adding person", "id", entry.Id, "name", entry.Name, "number", entry.Number)
	c.JSON(http.StatusOK, entry)
}

// updatePersonByID replaces name and number of the person whose id matches the id parameter of
// the request URL and responds with the new version of the person. Both fields are required.
//
// Example REST API call:
//
//	> curl http://localhost:3002/api/persons/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"name": "Mary Jane", "number": "81970"}'
func (h *handler) updatePersonByID(c *gin.Context) {
	var submitted model.Person
	if !h.bindPerson(c, &submitted) {
		return
	}
	entry, err := h.entries.Replace(c.Request.Context(), c.Param("id"), submitted.Name, submitted.Number)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.logger.Info("updating person", "id", entry.Id, "name", entry.Name, "number", entry.Number)
	c.JSON(http.StatusOK, entry)
}

// deletePersonByID deletes the person whose id matches the id parameter of the request URL. It
// answers 204 whether or not the person existed.
//
// Example REST API call:
//
//	> curl http://localhost:3002/api/persons/56 --request "DELETE"
func (h *handler) deletePersonByID(c *gin.Context) {
	id := c.Param("id")
	if err := h.entries.Delete(c.Request.Context(), id); err != nil {
		h.abortWithError(c, err)
		return
	}
	h.logger.Info("deleting person", "id", id)
	c.Status(http.StatusNoContent)
}

// staticOrUnknown serves a file of the static directory for GET and HEAD requests outside the
// API. Everything else is an unknown endpoint.
func (h *handler) staticOrUnknown(c *gin.Context) {
	method := c.Request.Method
	if h.staticDir != "" && (method == http.MethodGet || method == http.MethodHead) &&
		!strings.HasPrefix(c.Request.URL.Path, "/api/") {
		if file, ok := h.staticFile(c.Request.URL.Path); ok {
			c.File(file)
			return
		}
	}
	h.abortWithError(c, store.ErrUnknownRoute)
}

// staticFile maps the URL path onto a regular file in the static directory. A path ending in a
// slash maps onto its index.html.
func (h *handler) staticFile(urlPath string) (string, bool) {
	if strings.HasSuffix(urlPath, "/") {
		urlPath += "index.html"
	}
	file := filepath.Join(h.staticDir, filepath.FromSlash(path.Clean("/"+urlPath)))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}

// bindPerson parses the JSON body of the request. An empty body, with or without a known length,
// counts as an empty object, so that the field validation of the store produces the response.
func (h *handler) bindPerson(c *gin.Context, person *model.Person) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(person); err != nil && !errors.Is(err, io.EOF) {
		h.abortWithError(c, store.ValidationError("malformatted JSON"))
		return false
	}
	return true
}
