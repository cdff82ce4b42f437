package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/gonum/mat"

	"vipfit"
	"vipfit/adapters/postgres"
	"vipfit/domain/model"
)

// FitRequest is the JSON shape of a fit call. X and Z are row-major design
// matrices including any intercept column; omitted matrices default to
// intercept-only.
type FitRequest struct {
	Y         []int       `json:"y" binding:"required"`
	X         [][]float64 `json:"x,omitempty"`
	Z         [][]float64 `json:"z,omitempty"`
	XNames    []string    `json:"x_names,omitempty"`
	ZNames    []string    `json:"z_names,omitempty"`
	OffsetX   []float64   `json:"offset_x,omitempty"`
	OffsetZ   []float64   `json:"offset_z,omitempty"`
	Weights   []float64   `json:"weights,omitempty"`
	V         int         `json:"v"`
	Truncate  bool        `json:"truncate"`
	Link      string      `json:"link,omitempty"`
	Method    string      `json:"method,omitempty"`
	Start     []float64   `json:"start,omitempty"`
	NoHessian bool        `json:"no_hessian"`
	Seed      uint64      `json:"seed"`
	Level     float64     `json:"level,omitempty"`
	GofMax    int         `json:"gof_max,omitempty"`
}

// FitResponse is the JSON coefficient table plus fit metadata.
type FitResponse struct {
	ID           string               `json:"id"`
	Method       string               `json:"method"`
	NumObs       int                  `json:"num_obs"`
	LogLik       float64              `json:"loglik"`
	AIC          float64              `json:"aic"`
	BIC          float64              `json:"bic"`
	Coefficients []vipfit.Coefficient `json:"coefficients"`
	GoF          *GofResponse         `json:"gof,omitempty"`
}

// GofResponse pairs observed and expected probability mass per count.
type GofResponse struct {
	Counts   []int     `json:"counts"`
	Observed []float64 `json:"observed"`
	Expected []float64 `json:"expected"`
}

func (s *Server) handleFit(c *gin.Context) {
	req, m, ok := s.runFit(c)
	if !ok {
		return
	}

	level := req.Level
	if level == 0 {
		level = s.defaults.Level
	}

	resp := FitResponse{
		ID:           m.ID().String(),
		Method:       m.Method(),
		NumObs:       m.NumObs(),
		LogLik:       m.LogLik(),
		AIC:          vipfit.AIC(m),
		BIC:          vipfit.BIC(m),
		Coefficients: vipfit.Coefficients(m, level),
	}
	if req.GofMax != 0 {
		resp.GoF = gofResponse(m, req.GofMax)
	}

	if s.store != nil {
		if err := s.store.Save(c.Request.Context(), postgres.NewFitRecord(m, level)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGoodnessOfFit(c *gin.Context) {
	req, m, ok := s.runFit(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gofResponse(m, req.GofMax))
}

func (s *Server) handleGetFit(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no result store configured"})
		return
	}
	rec, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleListFits(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no result store configured"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	recs, err := s.store.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}

// runFit binds the request and runs the fit, writing the error response on
// failure.
func (s *Server) runFit(c *gin.Context) (*FitRequest, *model.FittedModel, bool) {
	var req FitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	x, err := denseFromRows(req.X)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	z, err := denseFromRows(req.Z)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	method := req.Method
	if method == "" {
		method = s.defaults.Method
	}
	seed := req.Seed
	if seed == 0 {
		seed = s.defaults.Seed
	}

	m, err := vipfit.Fit(req.Y, vipfit.Config{
		X:         x,
		Z:         z,
		XNames:    req.XNames,
		ZNames:    req.ZNames,
		OffsetX:   req.OffsetX,
		OffsetZ:   req.OffsetZ,
		Weights:   req.Weights,
		V:         req.V,
		Truncate:  req.Truncate,
		Link:      model.LinkName(req.Link),
		Method:    method,
		Start:     req.Start,
		NoHessian: req.NoHessian,
		Seed:      seed,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return nil, nil, false
	}
	return &req, m, true
}

func gofResponse(m *model.FittedModel, maxCount int) *GofResponse {
	table := vipfit.GoodnessOfFit(m, maxCount)
	return &GofResponse{
		Counts:   table.Counts,
		Observed: table.Observed,
		Expected: table.Expected,
	}
}

func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	k := len(rows[0])
	out := mat.NewDense(len(rows), k, nil)
	for i, row := range rows {
		if len(row) != k {
			return nil, errRaggedMatrix
		}
		out.SetRow(i, row)
	}
	return out, nil
}
