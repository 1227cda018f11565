package enrich

import (
	"math/rand"
	"sync"
)

// Defaults 为富化提供默认值来源，便于测试注入固定种子。
// 核心层不直接持有全局随机数。
type Defaults interface {
	IntBetween(min, max int) int
	Chance(p float64) bool
	Pick(options []string) string
}

// SeededDefaults 基于可指定种子的伪随机源实现 Defaults。
// *rand.Rand 本身不支持并发调用，这里用互斥锁保护，
// 同一个实例可以安全地被多个 HTTP 请求共享。
type SeededDefaults struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededDefaults 创建固定种子的默认值来源。
func NewSeededDefaults(seed int64) *SeededDefaults {
	return &SeededDefaults{rng: rand.New(rand.NewSource(seed))}
}

// IntBetween 返回 [min,max] 内的整数，min>max 时返回 min。
func (d *SeededDefaults) IntBetween(min, max int) int {
	if min >= max {
		return min
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return min + d.rng.Intn(max-min+1)
}

// Chance 以概率 p 返回 true。
func (d *SeededDefaults) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64() < p
}

// Pick 从候选项中随机取一个，空列表返回空串。
func (d *SeededDefaults) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return options[d.rng.Intn(len(options))]
}
