package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"qisim/adapters/export"
	"qisim/domain/cohort"
	"qisim/internal/errors"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 64 << 20

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"participants": len(s.service.Snapshot()),
	})
}

// handleSimulate accepts a SimulationConfig body; ?seed= fixes the random stream
func (s *Server) handleSimulate(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes))
	if err != nil {
		s.fail(c, errors.InvalidInput("could not read request body"))
		return
	}

	var cfg cohort.SimulationConfig
	if err := json.Unmarshal(body, &cfg); err != nil {
		s.fail(c, errors.InvalidInput("invalid simulation config: "+err.Error()))
		return
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		if _, ok := fields["numParticipants"]; !ok {
			cfg.NumParticipants = s.cfg.Simulation.DefaultParticipants
		}
	}

	seed, err := queryInt64(c, "seed")
	if err != nil {
		s.fail(c, err)
		return
	}

	info, err := s.service.Simulate(cfg, seed)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// handleImport accepts a JSON participant array or an xlsx workbook
func (s *Server) handleImport(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes))
	if err != nil {
		s.fail(c, errors.InvalidInput("could not read request body"))
		return
	}

	var ps []cohort.Participant
	if strings.Contains(c.ContentType(), "spreadsheet") {
		ps, err = export.ReadWorkbook(bytes.NewReader(body))
	} else {
		ps, err = export.ReadJSON(bytes.NewReader(body))
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	info, err := s.service.Import(ps)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

func (s *Server) handleDerive(c *gin.Context) {
	var req DeriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.InvalidInput(err.Error()))
		return
	}
	info, err := s.service.Derive(req.Relations, req.Seed)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleList(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	limit, err := queryInt(c, "limit", 100)
	if err != nil {
		s.fail(c, err)
		return
	}
	page, total := s.service.Page(offset, limit)
	c.JSON(http.StatusOK, gin.H{
		"participants": page,
		"total":        total,
		"offset":       offset,
		"limit":        limit,
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Summary())
}

// handleExport streams the cohort as json, csv or xlsx
func (s *Server) handleExport(c *gin.Context) {
	ps := s.service.Snapshot()
	format := c.DefaultQuery("format", "json")

	var (
		contentType string
		write       func(io.Writer) error
	)
	switch format {
	case "json":
		contentType = "application/json"
		write = func(w io.Writer) error { return export.WriteJSON(w, ps) }
	case "csv":
		contentType = "text/csv"
		write = func(w io.Writer) error { return export.WriteCSV(w, ps) }
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		write = func(w io.Writer) error { return export.WriteWorkbook(w, ps) }
	default:
		s.fail(c, errors.InvalidInput("unsupported export format: "+format))
		return
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=cohort."+format)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (s *Server) handleCorrelation(c *gin.Context) {
	s.pair(c, false)
}

func (s *Server) handleLine(c *gin.Context) {
	s.pair(c, true)
}

func (s *Server) pair(c *gin.Context, withLine bool) {
	var req PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.InvalidInput(err.Error()))
		return
	}
	resp, err := s.service.Pair(req, withLine)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleCorrelations computes the matrix over ?fields=a,b,c
func (s *Server) handleCorrelations(c *gin.Context) {
	var fields []string
	for _, f := range strings.Split(c.Query("fields"), ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) < 2 {
		s.fail(c, errors.InvalidInput("fields must name at least two fields"))
		return
	}
	cells, err := s.service.Correlations(c.Request.Context(), fields)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields, "cells": cells})
}

func (s *Server) handleRegression(c *gin.Context) {
	var req RegressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.InvalidInput(err.Error()))
		return
	}
	res, err := s.service.Regress(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleClusters(c *gin.Context) {
	var req ClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.InvalidInput(err.Error()))
		return
	}
	res, err := s.service.Cluster(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleReport renders json by default, or markdown/html via ?format=
func (s *Server) handleReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.InvalidInput(err.Error()))
		return
	}
	rep, err := s.service.Report(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "markdown", "md":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(rep.Markdown()))
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", rep.HTML())
	default:
		c.JSON(http.StatusOK, rep)
	}
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput(key + " must be an integer")
	}
	return v, nil
}

func queryInt64(c *gin.Context, key string) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.InvalidInput(key + " must be an integer")
	}
	return v, nil
}
