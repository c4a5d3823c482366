package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/services"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

type EmployeeHandler struct {
	svc   services.EmployeeService
	audit services.AuditService
}

func NewEmployeeHandler(svc services.EmployeeService, audit services.AuditService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, audit: audit}
}

type CreateEmployeeRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	Trade       string `json:"trade"`
	CompanyName string `json:"company_name" binding:"required"`
	Nationality string `json:"nationality"`
	Phone       string `json:"phone"`

	JoinDate    *DateOnly `json:"join_date"`
	BasicSalary float64   `json:"basic_salary"`

	VisaNumber           string    `json:"visa_number"`
	VisaExpiryDate       *DateOnly `json:"visa_expiry_date"`
	PassportNumber       string    `json:"passport_number"`
	PassportExpiryDate   *DateOnly `json:"passport_expiry_date"`
	LabourCardExpiryDate *DateOnly `json:"labour_card_expiry_date"`
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EmployeeHandler.Create", FormatBindingError(err), err))
		return
	}

	e := &models.Employee{
		EmployeeID:           req.EmployeeID,
		Name:                 req.Name,
		Email:                req.Email,
		Trade:                req.Trade,
		CompanyName:          req.CompanyName,
		Nationality:          req.Nationality,
		Phone:                req.Phone,
		JoinDate:             req.JoinDate.Ptr(),
		BasicSalary:          req.BasicSalary,
		VisaNumber:           req.VisaNumber,
		VisaExpiryDate:       req.VisaExpiryDate.Ptr(),
		PassportNumber:       req.PassportNumber,
		PassportExpiryDate:   req.PassportExpiryDate.Ptr(),
		LabourCardExpiryDate: req.LabourCardExpiryDate.Ptr(),
	}

	out, err := h.svc.Create(c.Request.Context(), e)
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), userID, "create", "employee", out.ID, c.ClientIP(), req)
	c.JSON(http.StatusCreated, out)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

type UpdateEmployeeRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Trade       *string `json:"trade,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	Phone       *string `json:"phone,omitempty"`

	JoinDate    *DateOnly `json:"join_date,omitempty"`
	LeaveDate   *DateOnly `json:"leave_date,omitempty"`
	BasicSalary *float64  `json:"basic_salary,omitempty"`

	VisaNumber           *string   `json:"visa_number,omitempty"`
	VisaExpiryDate       *DateOnly `json:"visa_expiry_date,omitempty"`
	PassportNumber       *string   `json:"passport_number,omitempty"`
	PassportExpiryDate   *DateOnly `json:"passport_expiry_date,omitempty"`
	LabourCardExpiryDate *DateOnly `json:"labour_card_expiry_date,omitempty"`

	IsActive *bool `json:"is_active,omitempty"`
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EmployeeHandler.Update", FormatBindingError(err), err))
		return
	}

	existing, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	// Apply partial updates
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.Trade != nil {
		existing.Trade = *req.Trade
	}
	if req.CompanyName != nil {
		existing.CompanyName = *req.CompanyName
	}
	if req.Nationality != nil {
		existing.Nationality = *req.Nationality
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.JoinDate != nil {
		existing.JoinDate = req.JoinDate.Ptr()
	}
	if req.LeaveDate != nil {
		existing.LeaveDate = req.LeaveDate.Ptr()
	}
	if req.BasicSalary != nil {
		existing.BasicSalary = *req.BasicSalary
	}
	if req.VisaNumber != nil {
		existing.VisaNumber = *req.VisaNumber
	}
	if req.VisaExpiryDate != nil {
		existing.VisaExpiryDate = req.VisaExpiryDate.Ptr()
	}
	if req.PassportNumber != nil {
		existing.PassportNumber = *req.PassportNumber
	}
	if req.PassportExpiryDate != nil {
		existing.PassportExpiryDate = req.PassportExpiryDate.Ptr()
	}
	if req.LabourCardExpiryDate != nil {
		existing.LabourCardExpiryDate = req.LabourCardExpiryDate.Ptr()
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	out, err := h.svc.Update(c.Request.Context(), existing)
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), userID, "update", "employee", out.ID, c.ClientIP(), req)
	c.JSON(http.StatusOK, out)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	hard := c.Query("hard") == "true"
	if hard {
		if role, _ := c.Get("role"); role != "admin" {
			writeError(c, utils.E(utils.CodeForbidden, "EmployeeHandler.Delete", "hard delete requires admin", nil))
			return
		}
	}

	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id, hard); err != nil {
		writeError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), userID, "delete", "employee", id, c.ClientIP(), gin.H{"hard": hard})
	c.Status(http.StatusNoContent)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)

	p := pgrepo.EmployeeListParams{
		Search:     c.Query("search"),
		Company:    c.Query("company"),
		Trade:      c.Query("trade"),
		ActiveOnly: c.Query("active") != "false",
		Limit:      limit,
		Offset:     offset,
	}
	if v, err := intQuery(c, "expiring_within"); err == nil {
		p.ExpiryDays = v
	}

	rows, total, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSearchResponse(rows, total))
}
