package handle

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/docvault/pkg/context"
)

const healthTimeout = 2 * time.Second

// Health 存活与依赖健康检查：DB ping + 对象存储连通性.
func Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	components := gin.H{}
	healthy := true

	if err := checkDB(ctx); err != nil {
		components["db"] = err.Error()
		healthy = false
	} else {
		components["db"] = "ok"
	}

	if err := checkS3(ctx); err != nil {
		components["s3"] = err.Error()
		healthy = false
	} else {
		components["s3"] = "ok"
	}

	status := http.StatusOK
	state := "ok"

	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	c.JSON(status, gin.H{"status": state, "components": components})
}

func checkDB(ctx context.Context) error {
	dbc := ctxPkg.GetDBClient(ctx)
	if dbc == nil || dbc.DB == nil {
		return errors.New("db client not initialized")
	}

	sqlDB, err := dbc.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func checkS3(ctx context.Context) error {
	s3c := ctxPkg.GetS3Client(ctx)
	if s3c == nil {
		return errors.New("s3 client not initialized")
	}

	return s3c.HealthCheck(ctx)
}
