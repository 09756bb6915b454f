package interaction

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/h0pes/docpat-sub000/internal/platform/auth"
	"github.com/h0pes/docpat-sub000/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	checkGroup := api.Group("", auth.RequireRole("admin", "physician", "pharmacist"))
	checkGroup.POST("/interactions/check", h.Check)
	checkGroup.POST("/interactions/check-new", h.CheckNew)
	checkGroup.POST("/patients/:patientId/interactions/check-new", h.CheckNewForPatient)
	checkGroup.GET("/drug-interactions", h.ListInteractions)
	checkGroup.GET("/drug-interactions/:id", h.GetInteraction)

	writeGroup := api.Group("", auth.RequireRole("admin", "pharmacist"))
	writeGroup.POST("/drug-interactions", h.CreateInteraction)
	writeGroup.PUT("/drug-interactions/:id", h.UpdateInteraction)
	writeGroup.DELETE("/drug-interactions/:id", h.DeleteInteraction)
	writeGroup.POST("/drug-interactions/import", h.ImportInteractions)
}

type checkRequest struct {
	DrugCodes   []string `json:"drug_codes"`
	MinSeverity string   `json:"min_severity"`
}

func (h *Handler) Check(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.CheckInteractions(c.Request().Context(), req.DrugCodes, req.MinSeverity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

type checkNewRequest struct {
	NewDrugCode       string   `json:"new_drug_code"`
	ExistingDrugCodes []string `json:"existing_drug_codes"`
	MinSeverity       string   `json:"min_severity"`
}

func (h *Handler) CheckNew(c echo.Context) error {
	var req checkNewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.NewDrugCode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new_drug_code is required")
	}
	result, err := h.svc.CheckNewMedication(c.Request().Context(),
		req.NewDrugCode, req.ExistingDrugCodes, req.MinSeverity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

type checkPatientRequest struct {
	MedicationName string `json:"medication_name"`
	GenericName    string `json:"generic_name"`
	MinSeverity    string `json:"min_severity"`
}

func (h *Handler) CheckNewForPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var req checkPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MedicationName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "medication_name is required")
	}
	result, err := h.svc.CheckNewMedicationForPatient(c.Request().Context(),
		patientID, req.MedicationName, req.GenericName, req.MinSeverity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateInteraction(c echo.Context) error {
	var d DrugInteraction
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateInteraction(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetInteraction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetInteraction(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "interaction not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListInteractions(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListInteractions(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateInteraction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var d DrugInteraction
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.UpdateInteraction(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteInteraction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteInteraction(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type importRequest struct {
	Interactions []*DrugInteraction `json:"interactions"`
}

func (h *Handler) ImportInteractions(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	applied, err := h.svc.ImportInteractions(c.Request().Context(), req.Interactions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"imported": applied})
}
