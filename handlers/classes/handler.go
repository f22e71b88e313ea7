package classes

import (
	"net/http"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/db"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/models"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Create a class offering
// @Description Create a new class offering (admin only)
// @Tags classes
// @Accept json
// @Produce json
// @Param class body models.ClassOfferingCreate true "Class information"
// @Security BearerAuth
// @Success 201 {object} models.ClassOffering
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /classes [post]
func CreateClass(c *gin.Context) {
	var input models.ClassOfferingCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	currency := input.Currency
	if currency == "" {
		currency = "usd"
	}

	class := models.ClassOffering{
		Title:         input.Title,
		Description:   input.Description,
		TutorName:     input.TutorName,
		Price:         input.Price,
		Currency:      currency,
		MaxCapacity:   input.MaxCapacity,
		ScheduledTime: input.ScheduledTime,
		Status:        models.ClassScheduled,
	}

	if err := db.DB.Create(&class).Error; err != nil {
		utils.LogError(err, "Error creating class offering")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating class: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, class)
}

// @Summary List class offerings
// @Description Retrieve the class catalog, soonest first
// @Tags classes
// @Produce json
// @Success 200 {array} models.ClassOffering
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /classes [get]
func GetAllClasses(c *gin.Context) {
	var offerings []models.ClassOffering
	result := db.DB.Where("status <> ?", models.ClassCancelled).
		Order("scheduled_time ASC").Find(&offerings)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	c.JSON(http.StatusOK, offerings)
}

// @Summary Get a class offering
// @Description Retrieve one class by its ID
// @Tags classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} models.ClassOffering
// @Failure 400 {object} map[string]string "error: Invalid class ID"
// @Failure 404 {object} map[string]string "error: Class not found"
// @Router /classes/{id} [get]
func GetClassByID(c *gin.Context) {
	classID := c.Param("id")
	if _, err := uuid.Parse(classID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	var class models.ClassOffering
	if err := db.DB.First(&class, "id = ?", classID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}

	c.JSON(http.StatusOK, class)
}

// @Summary Update a class offering
// @Description Update a class offering (admin only)
// @Tags classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param class body models.ClassOfferingCreate true "Updated class information"
// @Security BearerAuth
// @Success 200 {object} models.ClassOffering
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Class not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /classes/{id} [put]
func UpdateClass(c *gin.Context) {
	classID := c.Param("id")

	var class models.ClassOffering
	if err := db.DB.First(&class, "id = ?", classID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}

	var input models.ClassOfferingCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	class.Title = input.Title
	class.Description = input.Description
	class.TutorName = input.TutorName
	class.Price = input.Price
	class.MaxCapacity = input.MaxCapacity
	class.ScheduledTime = input.ScheduledTime
	if input.Currency != "" {
		class.Currency = input.Currency
	}

	if err := db.DB.Save(&class).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating class: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, class)
}

// @Summary Cancel a class offering
// @Description Mark a class offering as cancelled (admin only). Offerings are never deleted.
// @Tags classes
// @Produce json
// @Param id path string true "Class ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Class cancelled successfully"
// @Failure 404 {object} map[string]string "error: Class not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /classes/{id} [delete]
func CancelClass(c *gin.Context) {
	classID := c.Param("id")

	var class models.ClassOffering
	if err := db.DB.First(&class, "id = ?", classID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}

	if err := db.DB.Model(&class).Update("status", models.ClassCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error cancelling class: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Class cancelled successfully"})
}
