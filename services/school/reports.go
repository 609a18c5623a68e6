package schoolsvc

import (
	"context"
	"mime"

	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/report"
)

type ReportClient struct {
	c *Client
}

func (r *ReportClient) GradeReport(ctx context.Context, studentID core.ID) (report.GradeReport, error) {
	var rep report.GradeReport
	err := r.c.call(ctx, request{method: rest.Get, path: idPath("reports/students", studentID, "grades")}, &rep)
	return rep, err
}

// Transcript downloads the student's transcript. The bytes are returned untouched.
func (r *ReportClient) Transcript(ctx context.Context, studentID core.ID) (core.Download, error) {
	res, err := r.c.send(ctx, request{
		method: rest.Get,
		path:   idPath("reports/students", studentID, "transcript"),
		accept: "application/pdf, */*",
	})
	if err != nil {
		return core.Download{}, err
	}
	return core.Download{
		Data:        res.body,
		ContentType: res.headers.Get("Content-Type"),
		Filename:    attachmentName(res.headers.Get("Content-Disposition")),
	}, nil
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
