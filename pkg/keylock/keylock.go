package keylock

import "sync"

// KeyLock набор мьютексов по ключу. Запись о ключе удаляется,
// когда её больше никто не держит и не ждёт.
type KeyLock struct {
	mu    sync.Mutex
	locks map[int64]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New создает пустой KeyLock
func New() *KeyLock {
	return &KeyLock{locks: make(map[int64]*entry)}
}

// Lock захватывает блокировку по ключу и возвращает функцию освобождения
func (k *KeyLock) Lock(key int64) (unlock func()) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}

// Len количество ключей, по которым сейчас есть держатели (для тестов)
func (k *KeyLock) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
