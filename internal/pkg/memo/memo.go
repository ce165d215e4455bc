package memo

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// 短 TTL 进程内缓存加 singleflight 合并。
// 不是 LRU，没有容量上限，只按时间过期，只适用单进程部署。
// 数据量和命中模式撑不起分布式缓存，不要把它换成 redis。

// Clock 注入时钟，过期逻辑可以用假时钟确定性测试
type Clock func() time.Time

type entry struct {
	data    interface{}
	expires time.Time
}

// Cache 进程级 TTL 缓存
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   Clock
	sf      singleflight.Group
}

// New 创建缓存，ttl 是条目默认存活时间
func New(ttl time.Duration, clock Clock) *Cache {
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get 读取，过期条目在读取时就地删除，不等周期清理
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.clock().After(e.expires) {
		c.mu.Lock()
		// 併发下可能已被覆盖，按当前值复查
		if cur, ok := c.entries[key]; ok && c.clock().After(cur.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.data, true
}

// Set 按默认 TTL 写入
func (c *Cache) Set(key string, data interface{}) {
	c.SetTTL(key, data, c.ttl)
}

// SetTTL 按指定 TTL 写入
func (c *Cache) SetTTL(key string, data interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{data: data, expires: c.clock().Add(ttl)}
	c.mu.Unlock()
}

// Delete 删除单个键
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Flush 清空
func (c *Cache) Flush() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len 当前条目数（含未被惰性淘汰的过期条目）
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep 删除所有过期条目，返回删除数
func (c *Cache) Sweep() int {
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// StartSweeper 周期清理过期条目，ctx 结束时退出
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// Do 缓存读取，未命中时经 singleflight 合并回源
// 同一 key 的并发未命中只触发一次 loader，相当于一次渲染周期内
// 多个组件请求同一份数据只打一次库。
func (c *Cache) Do(key string, loader func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// 排队期间可能已经有人填好了
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		data, err := loader()
		if err != nil {
			return nil, err
		}
		c.Set(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Cached 带类型的 Do 包装
func Cached[T any](c *Cache, key string, loader func() (T, error)) (T, error) {
	v, err := c.Do(key, func() (interface{}, error) {
		return loader()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
