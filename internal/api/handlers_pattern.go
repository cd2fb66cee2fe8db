// handlers_pattern.go - Pattern compute and rendering handlers
package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/CryoKynase/wheel-lacing-app/internal/export"
	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEApplicationMsgpack is the content type of binary pattern responses
const MIMEApplicationMsgpack = "application/msgpack"

// PatternHandlerImpl implements the PatternHandler interface
type PatternHandlerImpl struct {
	svc *patternService
}

// NewPatternHandler creates a new pattern handler
func NewPatternHandler(registry *method.Registry, store storage.Store, defaults Defaults) PatternHandler {
	return &PatternHandlerImpl{svc: newPatternService(registry, store, defaults)}
}

// HandleCompute returns the full pattern for a method, hole count and
// parameters. Clients sending Accept: application/msgpack get MessagePack.
func (h *PatternHandlerImpl) HandleCompute(c echo.Context) error {
	var req patternRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	res, _, err := h.svc.compute(c.Request().Context(), req)
	if err != nil {
		return err
	}

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), MIMEApplicationMsgpack) {
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(res); err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(http.StatusOK, MIMEApplicationMsgpack, buf.Bytes())
	}
	return c.JSON(http.StatusOK, res)
}

// HandleLayout returns the pattern with its step/side filtered view and the
// diagram geometry
func (h *PatternHandlerImpl) HandleLayout(c echo.Context) error {
	var req patternRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	resp, err := h.svc.layout(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleExportCSV downloads the visible rows as CSV
func (h *PatternHandlerImpl) HandleExportCSV(c echo.Context) error {
	var req patternRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	resp, err := h.svc.layout(c.Request().Context(), req)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, resp.Table); err != nil {
		return NewInternalError("failed to write CSV", err)
	}

	setAttachment(c, downloadName(resp, "csv"))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// HandleDiagramSVG renders the lacing diagram as SVG
func (h *PatternHandlerImpl) HandleDiagramSVG(c echo.Context) error {
	var req patternRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	resp, err := h.svc.layout(c.Request().Context(), req)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteSVG(&buf, resp.Layout, diagramTitle(resp)); err != nil {
		return NewInternalError("failed to render diagram", err)
	}

	if c.QueryParam("download") != "" {
		setAttachment(c, downloadName(resp, "svg"))
	}
	return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func diagramTitle(resp *layoutResponse) string {
	title := fmt.Sprintf("%s %dh", resp.Pattern.MethodID, resp.Pattern.HoleCount)
	if !resp.Step.ShowsAll() {
		title += ", " + resp.Step.Label
	}
	if resp.Side != SideAll {
		title += ", " + resp.Side + " flange"
	}
	return title
}

func downloadName(resp *layoutResponse, ext string) string {
	name := fmt.Sprintf("%s-%dh-%s", resp.Pattern.MethodID, resp.Pattern.HoleCount, resp.Step.ID)
	if resp.Side != SideAll {
		name += "-" + resp.Side
	}
	return name + "." + ext
}

func setAttachment(c echo.Context, filename string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}
