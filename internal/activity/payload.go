package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/booking-mcp/internal/config"
)

// TaskResource is one resource line of a task payload.
type TaskResource struct {
	ID   string
	Type string
}

// Task is the payload of one activity submission. The same shape serves
// both creation and update; the backend keys on TaskID.
type Task struct {
	TaskID    int64
	Title     string
	TaskType  string
	Start     time.Time
	End       time.Time
	Resources []TaskResource
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// BuildTaskXML renders the task document the activity API expects. Element
// names are assembled from the configured entity, action, business-object
// and OB codes; dates and times travel in separate attributes.
func BuildTaskXML(cfg config.API, task Task) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n")
	fmt.Fprintf(&b, `<%s xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" ConsolidationDate="01-01-1900" applicationId="%s">`+"\n",
		cfg.TaskEntityName, cfg.ApplicationID)
	fmt.Fprintf(&b, `<%s TETASKID_K="%d" TETITLE="%s" TETYPE="%s" dtBegin="%s" tmBegin="%s" dtEnd="%s" tmEnd="%s">`+"\n",
		cfg.TaskActionName,
		task.TaskID,
		xmlEscaper.Replace(task.Title),
		task.TaskType,
		task.Start.Format("2006-01-02"),
		task.Start.Format("15:04"),
		task.End.Format("2006-01-02"),
		task.End.Format("15:04"))
	fmt.Fprintf(&b, "<%s_%s>\n", cfg.TaskBOName, cfg.OBCode)
	for _, res := range task.Resources {
		fmt.Fprintf(&b, "<%s_%s>\n", cfg.TaskEntityName, cfg.OBCode)
		fmt.Fprintf(&b, "<RLRESOURCEID_K>%s</RLRESOURCEID_K>\n", xmlEscaper.Replace(res.ID))
		fmt.Fprintf(&b, "<RLRESTYPE>%s</RLRESTYPE>\n", res.Type)
		fmt.Fprintf(&b, "</%s_%s>\n", cfg.TaskEntityName, cfg.OBCode)
	}
	fmt.Fprintf(&b, "</%s_%s>\n", cfg.TaskBOName, cfg.OBCode)
	fmt.Fprintf(&b, "</%s>\n", cfg.TaskActionName)
	fmt.Fprintf(&b, "</%s>", cfg.TaskEntityName)

	return b.String()
}
