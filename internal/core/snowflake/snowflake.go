package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"

	"github.com/KeaPin/gameshare/internal/core/config"
	"github.com/KeaPin/gameshare/internal/core/logger"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init 初始化节点，幂等
// 产出的 ID 只做请求追踪，业务主键走 idgen 的 32 位十六进制串
func Init(cfg *config.SnowflakeConfig) error {
	var initErr error
	nodeOnce.Do(func() {
		node, initErr = snowflake.NewNode(cfg.WorkerID)
		if initErr != nil {
			return
		}
		logger.Info("snowflake 节点就绪", logger.Int("worker_id", int(cfg.WorkerID)))
	})
	return initErr
}

// GetNode 取节点，Init 失败时为 nil
func GetNode() *snowflake.Node {
	return node
}
