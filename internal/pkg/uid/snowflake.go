package uid

import (
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates sortable numeric IDs using Twitter's snowflake layout.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a Snowflake generator whose node number is derived
// from the hostname, so replicas get distinct nodes without coordination.
func NewSnowflake() (*Snowflake, error) {
	host, err := os.Hostname()
	if err != nil {
		host = "mobiauth"
	}

	h := fnv.New32a()
	h.Write([]byte(host))

	node, err := snowflake.NewNode(int64(h.Sum32() % 1024))
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
