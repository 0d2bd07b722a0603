package container

import "sync"

// Latest 双缓冲的最新值单元
// 功能：承接异步数据源向周期性消费者的数据交付，生产者随时Set写入缓冲区，
// Prepare时原子提交为快照，一个周期内读到的值保持不变
// 说明：同一周期内多次Set只保留最后一次写入；尚未提交过任何值时Load返回ok=false
type Latest[T any] struct {
	mtx      sync.Mutex
	buffer   *T // 待提交的新值，nil表示本周期没有新数据
	snapshot T
	ok       bool // 快照是否有效（至少提交过一次）
}

// Set 写入新值（Prepare后生效）
func (l *Latest[T]) Set(v T) {
	l.mtx.Lock()
	l.buffer = &v
	l.mtx.Unlock()
}

// Prepare 提交缓冲区
// 说明：没有待提交的新值时保留上一周期的快照
func (l *Latest[T]) Prepare() {
	l.mtx.Lock()
	if l.buffer != nil {
		l.snapshot = *l.buffer
		l.buffer = nil
		l.ok = true
	}
	l.mtx.Unlock()
}

// Load 读取当前快照
func (l *Latest[T]) Load() (T, bool) {
	return l.snapshot, l.ok
}
