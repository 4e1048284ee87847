// Package api provides the REST API server for bank2preset
package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/bank2preset/pkg/converter"
	"github.com/james-see/bank2preset/pkg/params"
	"github.com/james-see/bank2preset/pkg/wopl"
)

// @title bank2preset API
// @version 1.0
// @description API for converting WOPL instrument banks into MiniOPL3 presets
// @host localhost:8080
// @BasePath /api/v1

// Options configure the server
type Options struct {
	URIPrefix string // used when a request has no uri_prefix
	PluginURI string
	Logger    *log.Logger
}

type server struct {
	uriPrefix string
	pluginURI string
	logger    *log.Logger
}

// NewRouter builds the HTTP handler
func NewRouter(opts Options) *gin.Engine {
	s := &server{uriPrefix: opts.URIPrefix, pluginURI: opts.PluginURI, logger: opts.Logger}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.GET("/parameters", listParameters)
		v1.POST("/convert/:format", s.handleConvert)
		v1.POST("/instruments", s.handleInstruments)
		v1.POST("/audition", s.handleAudition)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the specified port
func StartServer(port int, opts Options) error {
	return NewRouter(opts).Run(fmt.Sprintf(":%d", port))
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "bank2preset",
	})
}

// FormatInfo describes one output format
type FormatInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	NeedsURI    bool   `json:"needs_uri_prefix"`
}

// listFormats godoc
// @Summary List output formats
// @Description Returns the formats a bank can be converted to
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]FormatInfo
// @Router /formats [get]
func listFormats(c *gin.Context) {
	var formats []FormatInfo
	for _, f := range converter.SupportedFormats() {
		formats = append(formats, FormatInfo{
			Name:        string(f),
			Description: f.Description(),
			NeedsURI:    f.IsDocument(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"formats": formats})
}

// listParameters godoc
// @Summary List synthesizer parameters
// @Description Returns the parameter schema in index order
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]params.Parameter
// @Router /parameters [get]
func listParameters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"count":      params.Count,
		"parameters": params.All(),
	})
}

// handleConvert godoc
// @Summary Convert WOPL banks
// @Description Upload one or more WOPL banks and receive the converted text
// @Tags convert
// @Accept multipart/form-data
// @Produce text/plain
// @Param format path string true "Output format (table, presets, manifest)"
// @Param file formData file true "WOPL bank file, repeatable"
// @Param uri_prefix query string false "URI prefix, required for presets and manifest"
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Router /convert/{format} [post]
func (s *server) handleConvert(c *gin.Context) {
	format, err := converter.ParseFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := converter.New(format,
		converter.WithURIPrefix(c.DefaultQuery("uri_prefix", s.uriPrefix)),
		converter.WithPluginURI(s.pluginURI),
		converter.WithLogger(s.logger))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	banks, ok := readBanks(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if _, err := conv.ConvertBanks(&buf, banks); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", format.OutputName(banks[0].Name)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// handleInstruments godoc
// @Summary List the instruments of WOPL banks
// @Description Upload WOPL banks and receive their converted instruments as JSON
// @Tags convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "WOPL bank file, repeatable"
// @Success 200 {object} map[string][]converter.Summary
// @Failure 400 {object} map[string]string
// @Router /instruments [post]
func (s *server) handleInstruments(c *gin.Context) {
	banks, ok := readBanks(c)
	if !ok {
		return
	}
	results, spec, err := converter.ConvertAll(banks)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list := make([]converter.Summary, len(results))
	for i, r := range results {
		list[i] = converter.Summarize(r)
	}
	c.JSON(http.StatusOK, gin.H{
		"spec":        spec.String(),
		"instruments": list,
	})
}

// handleAudition godoc
// @Summary Render an audition MIDI file
// @Description Upload WOPL banks and receive a MIDI file playing each instrument once
// @Tags convert
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true "WOPL bank file, repeatable"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /audition [post]
func (s *server) handleAudition(c *gin.Context) {
	banks, ok := readBanks(c)
	if !ok {
		return
	}
	results, _, err := converter.ConvertAll(banks)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := converter.Audition(results)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.mid", banks[0].Name))
	c.Data(http.StatusOK, "audio/midi", data)
}

// readBanks parses every uploaded "file" part. It writes the error
// response itself and reports whether the handler may continue.
func readBanks(c *gin.Context) ([]converter.NamedBank, bool) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["file"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, false
	}

	var banks []converter.NamedBank
	for _, header := range form.File["file"] {
		f, err := readBank(header)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s: %v", header.Filename, err)})
			return nil, false
		}
		banks = append(banks, converter.NamedBank{Name: converter.SourceName(header.Filename), File: f})
	}
	return banks, true
}

func readBank(header *multipart.FileHeader) (*wopl.File, error) {
	if header.Size > wopl.MaxFileSize {
		return nil, wopl.ErrTooLarge
	}
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, wopl.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return wopl.Parse(data)
}
