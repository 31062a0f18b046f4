package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/modelarena/challenger-stream/internal/api/middleware"
	"github.com/modelarena/challenger-stream/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/comparisons").
			To(handler.TriggerComparison).
			Doc("Trigger a challenger comparison stream").
			Metadata(restfulspec.KeyOpenAPITags, []string{"comparisons"}).
			Reads(models.ComparisonRequest{}).
			Writes(ComparisonAccepted{}).
			Returns(202, "Accepted", ComparisonAccepted{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/evaluations/{eval_id}").
			To(handler.GetEvaluation).
			Doc("Read the current snapshot of an evaluation").
			Metadata(restfulspec.KeyOpenAPITags, []string{"comparisons"}).
			Param(ws.PathParameter("eval_id", "Evaluation identifier").DataType("string")).
			Writes(models.EvaluationSnapshot{}).
			Returns(200, "OK", models.EvaluationSnapshot{}).
			Returns(404, "Evaluation Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
