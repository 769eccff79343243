package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xh3b4sd/loadcast/ctxlog"
	"github.com/xh3b4sd/loadcast/feature"
	"github.com/xh3b4sd/loadcast/recorder"
	"github.com/xh3b4sd/loadcast/render"
	"github.com/xh3b4sd/loadcast/service"
)

const (
	defaultHour  = 10
	defaultLimit = 20
)

// ForecastRequest is bound from the dashboard form and from the query of the
// JSON API.
type ForecastRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
	Hour *int   `form:"hour" binding:"omitempty,min=0,max=23"`
}

func (r ForecastRequest) hour() int {
	if r.Hour == nil {
		return defaultHour
	}

	return *r.Hour
}

type HistoryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

func (s *Server) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "page.html", s.view(s.now().Format(feature.Layout), defaultHour))
}

func (s *Server) Submit(c *gin.Context) {
	var req ForecastRequest
	if err := c.ShouldBind(&req); err != nil {
		v := s.view(c.PostForm("date"), formHour(c))
		v.Err = bindMessage(err)
		c.HTML(http.StatusBadRequest, "page.html", v)
		return
	}

	v := s.view(req.Date, req.hour())

	res, sta, err := s.forecast(c, req)
	if err != nil {
		v.Err = err.Error()
		c.HTML(sta, "page.html", v)
		return
	}

	cha := render.Force(res.Att)
	v.Res = &render.Result{
		Dis: res.Dis,
		Cha: &cha,
	}

	c.HTML(http.StatusOK, "page.html", v)
}

func (s *Server) Forecast(c *gin.Context) {
	var req ForecastRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err)})
		return
	}

	res, sta, err := s.forecast(c, req)
	if err != nil {
		c.JSON(sta, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) Forecasts(c *gin.Context) {
	var req HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err)})
		return
	}

	if req.Limit == 0 {
		req.Limit = defaultLimit
	}

	ent, err := s.svc.Recent(c.Request.Context(), req.Limit)
	if service.IsRecorderDisabled(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "forecast history is not enabled"})
		return
	} else if err != nil {
		ctxlog.FromContext(c.Request.Context()).Error("failed to list forecasts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list forecasts"})
		return
	}

	if ent == nil {
		ent = []recorder.Entry{}
	}

	c.JSON(http.StatusOK, gin.H{"forecasts": ent})
}

// forecast runs a bound request through the service and maps failures to
// the status code the caller should answer with.
func (s *Server) forecast(c *gin.Context, req ForecastRequest) (service.Result, int, error) {
	dat, err := time.Parse(feature.Layout, req.Date)
	if err != nil {
		return service.Result{}, http.StatusBadRequest, fmt.Errorf("invalid date %q", req.Date)
	}

	res, err := s.svc.Forecast(c.Request.Context(), dat, req.hour())
	if feature.IsInvalidHour(err) || feature.IsInvalidDate(err) {
		return service.Result{}, http.StatusBadRequest, fmt.Errorf("invalid input: %s", err)
	} else if err != nil {
		ctxlog.FromContext(c.Request.Context()).Error("forecast failed", "date", req.Date, "hour", req.hour(), "error", err)
		return service.Result{}, http.StatusBadGateway, errors.New("the model could not produce a forecast")
	}

	return res, http.StatusOK, nil
}

func (s *Server) view(dat string, hou int) render.View {
	return render.View{
		Tit: s.tit,
		Log: s.lgo,
		Dat: dat,
		Hou: hou,
	}
}
