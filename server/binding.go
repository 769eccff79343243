package server

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var fieldMessage = map[string]string{
	"Date":  "date must be a calendar date as YYYY-MM-DD",
	"Hour":  "hour must be between 0 and 23",
	"Limit": "limit must be between 1 and 1000",
}

// bindMessage turns a binding failure into text fit for the user.
func bindMessage(err error) string {
	var val validator.ValidationErrors
	if !errors.As(err, &val) {
		return "Invalid input: hour and limit must be whole numbers"
	}

	var msg []string
	for _, f := range val {
		m, ok := fieldMessage[f.Field()]
		if !ok {
			m = strings.ToLower(f.Field()) + " is invalid"
		}

		msg = append(msg, m)
	}

	return "Invalid input: " + strings.Join(msg, ", ")
}

// formHour returns the submitted hour if it is usable, so that a rejected
// form keeps the slider where the user left it.
func formHour(c *gin.Context) int {
	hou, err := strconv.Atoi(c.PostForm("hour"))
	if err != nil || hou < 0 || hou > 23 {
		return defaultHour
	}

	return hou
}
