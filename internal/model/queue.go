package model

// QueueItem is a single playable entry of an expanded playlist
type QueueItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PlayQueue holds the items of an expanded playlist and a cursor into them
type PlayQueue struct {
	Title string
	Items []QueueItem
	index int
}

// NewPlayQueue creates a queue positioned on its first item
func NewPlayQueue(title string, items []QueueItem) *PlayQueue {
	return &PlayQueue{
		Title: title,
		Items: items,
	}
}

// Len returns the number of items
func (q *PlayQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Items)
}

// Index returns the cursor position
func (q *PlayQueue) Index() int {
	return q.index
}

// Current returns the item under the cursor
func (q *PlayQueue) Current() (QueueItem, bool) {
	if q.Len() == 0 {
		return QueueItem{}, false
	}
	return q.Items[q.index], true
}

// Next advances the cursor. It returns false at the end of the queue.
func (q *PlayQueue) Next() (QueueItem, bool) {
	if q.Len() == 0 || q.index >= len(q.Items)-1 {
		return QueueItem{}, false
	}
	q.index++
	return q.Items[q.index], true
}

// Previous moves the cursor back. It returns false at the start of the queue.
func (q *PlayQueue) Previous() (QueueItem, bool) {
	if q.Len() == 0 || q.index == 0 {
		return QueueItem{}, false
	}
	q.index--
	return q.Items[q.index], true
}
