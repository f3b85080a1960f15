package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/middleware"
)

// studentHandler handles HTTP requests for student accounts, balances and
// liabilities.
type studentHandler struct {
	studentService portssvc.StudentSvcFacade
}

// newStudentHandler creates a new studentHandler.
func newStudentHandler(studentService portssvc.StudentSvcFacade) *studentHandler {
	return &studentHandler{
		studentService: studentService,
	}
}

func (h *studentHandler) createStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateStudentRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createStudent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), createReq, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create student")
		return
	}

	logger.Info("Student created", slog.String("student_id", student.StudentID), slog.String("nis", student.NIS))
	c.JSON(http.StatusCreated, dto.ToStudentResponse(student))
}

func (h *studentHandler) getStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	student, err := h.studentService.GetStudent(c.Request.Context(), studentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve student")
		return
	}

	c.JSON(http.StatusOK, dto.ToStudentResponse(student))
}

// getStudentByNIS serves card scans at the register.
func (h *studentHandler) getStudentByNIS(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	nis := c.Param("nis")

	student, err := h.studentService.GetStudentByNIS(c.Request.Context(), nis)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve student")
		return
	}

	c.JSON(http.StatusOK, dto.ToStudentResponse(student))
}

func (h *studentHandler) listStudents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListStudentsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for listStudents", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	students, err := h.studentService.ListStudents(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list students")
		return
	}

	resp := make([]dto.StudentResponse, len(students))
	for i := range students {
		resp[i] = dto.ToStudentResponse(&students[i])
	}
	c.JSON(http.StatusOK, gin.H{"students": resp})
}

func (h *studentHandler) updateStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	updateReq := dto.UpdateStudentRequest{}
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		logger.Error("Failed to bind JSON for updateStudent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), studentID, updateReq, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update student")
		return
	}

	logger.Info("Student updated", slog.String("student_id", studentID))
	c.JSON(http.StatusOK, dto.ToStudentResponse(student))
}

func (h *studentHandler) deactivateStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.studentService.DeactivateStudent(c.Request.Context(), studentID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate student")
		return
	}

	logger.Info("Student deactivated", slog.String("student_id", studentID))
	c.Status(http.StatusNoContent)
}

// topUp credits a student balance. The balance change and the payment method
// credit commit atomically.
func (h *studentHandler) topUp(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	topUpReq := dto.TopUpRequest{}
	if err := c.ShouldBindJSON(&topUpReq); err != nil {
		logger.Error("Failed to bind JSON for topUp", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	student, err := h.studentService.TopUp(c.Request.Context(), studentID, topUpReq, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to top up student balance")
		return
	}

	logger.Info("Student balance topped up",
		slog.String("student_id", studentID),
		slog.String("amount", topUpReq.Amount.String()))
	c.JSON(http.StatusOK, dto.ToStudentResponse(student))
}

func (h *studentHandler) createLiability(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	createReq := dto.CreateLiabilityRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createLiability", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	liability, err := h.studentService.CreateLiability(c.Request.Context(), studentID, createReq, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create liability")
		return
	}

	logger.Info("Liability created", slog.String("liability_id", liability.LiabilityID), slog.String("student_id", studentID))
	c.JSON(http.StatusCreated, dto.ToLiabilityResponse(liability))
}

func (h *studentHandler) listLiabilities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	liabilities, err := h.studentService.ListLiabilities(c.Request.Context(), studentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list liabilities")
		return
	}

	resp := make([]dto.LiabilityResponse, len(liabilities))
	for i := range liabilities {
		resp[i] = dto.ToLiabilityResponse(&liabilities[i])
	}
	c.JSON(http.StatusOK, gin.H{"liabilities": resp})
}

// payLiability pays down a liability from the student balance or over a
// payment channel.
func (h *studentHandler) payLiability(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	liabilityID := c.Param("liabilityID")

	payReq := dto.PayLiabilityRequest{}
	if err := c.ShouldBindJSON(&payReq); err != nil {
		logger.Error("Failed to bind JSON for payLiability", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	liability, err := h.studentService.PayLiability(c.Request.Context(), liabilityID, payReq, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to pay liability")
		return
	}

	logger.Info("Liability payment recorded",
		slog.String("liability_id", liabilityID),
		slog.String("amount", payReq.Amount.String()))
	c.JSON(http.StatusOK, dto.ToLiabilityResponse(liability))
}

// registerStudentRoutes registers student specific routes
func registerStudentRoutes(group *gin.RouterGroup, studentService portssvc.StudentSvcFacade) {
	studentHandler := newStudentHandler(studentService)

	students := group.Group("/students")
	{
		students.POST("", studentHandler.createStudent)
		students.GET("", studentHandler.listStudents)
		students.GET("/:studentID", studentHandler.getStudent)
		students.GET("/nis/:nis", studentHandler.getStudentByNIS)
		students.PUT("/:studentID", studentHandler.updateStudent)
		students.DELETE("/:studentID", studentHandler.deactivateStudent)
		students.POST("/:studentID/topup", studentHandler.topUp)
		students.POST("/:studentID/liabilities", studentHandler.createLiability)
		students.GET("/:studentID/liabilities", studentHandler.listLiabilities)
	}

	liabilities := group.Group("/liabilities")
	{
		liabilities.POST("/:liabilityID/pay", studentHandler.payLiability)
	}
}
