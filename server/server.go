// Package server exposes the forecast dashboard and its JSON API over HTTP.
package server

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xh3b4sd/loadcast/render"
	"github.com/xh3b4sd/loadcast/service"
	"github.com/xh3b4sd/tracer"
)

type Config struct {
	// Log is the logger every request logger is derived from.
	Log *slog.Logger
	// Lgo is the data URI of the logo shown in the page header.
	Lgo template.URL
	Svc *service.Service
	Tit string
	// Now defaults to time.Now and decides the date preselected in the form.
	Now func() time.Time
}

type Server struct {
	log *slog.Logger
	lgo template.URL
	svc *service.Service
	tit string
	now func() time.Time
}

func New(c Config) *Server {
	if c.Svc == nil {
		panic("Config.Svc must not be empty")
	}

	if c.Log == nil {
		c.Log = slog.Default()
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	return &Server{
		log: c.Log,
		lgo: c.Lgo,
		svc: c.Svc,
		tit: c.Tit,
		now: c.Now,
	}
}

// Engine wires middleware and routes into a new gin engine.
func (s *Server) Engine() (*gin.Engine, error) {
	tem, err := render.Template()
	if err != nil {
		return nil, tracer.Mask(err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log))
	r.SetHTMLTemplate(tem)

	r.GET("/", s.Index)
	r.POST("/", s.Submit)

	api := r.Group("/api/v1")
	{
		api.GET("/forecast", s.Forecast)
		api.GET("/forecasts", s.Forecasts)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "loadcast",
		})
	})

	return r, nil
}
