package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cyclops/internal/model"
)

// QueueListHeight is the visible height of the playlist item list
const QueueListHeight float32 = 120

// QueueView shows the items of an expanded playlist with the current one
// marked. It is hidden when no playlist is loaded.
type QueueView struct {
	localization *Localization
	queue        *model.PlayQueue

	header      *widget.Label
	list        *widget.List
	previousBtn *widget.Button
	nextBtn     *widget.Button
	container   *fyne.Container

	// OnPrevious and OnNext are called by the navigation buttons
	OnPrevious func()
	OnNext     func()
}

// NewQueueView creates an empty, hidden queue view
func NewQueueView(localization *Localization) *QueueView {
	qv := &QueueView{localization: localization}
	qv.createUI()
	return qv
}

func (qv *QueueView) createUI() {
	qv.header = widget.NewLabel("")
	qv.header.Truncation = fyne.TextTruncateEllipsis

	qv.list = widget.NewList(
		func() int { return qv.queue.Len() },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if label, ok := obj.(*widget.Label); ok {
				label.SetText(qv.itemText(id))
			}
		},
	)

	qv.previousBtn = widget.NewButton(IconPrevious+" "+qv.localization.GetText(KeyPrevious), func() {
		if qv.OnPrevious != nil {
			qv.OnPrevious()
		}
	})
	qv.nextBtn = widget.NewButton(qv.localization.GetText(KeyNext)+" "+IconNext, func() {
		if qv.OnNext != nil {
			qv.OnNext()
		}
	})

	scroll := container.NewVScroll(qv.list)
	scroll.SetMinSize(fyne.NewSize(0, QueueListHeight))

	qv.container = container.NewBorder(
		container.NewBorder(nil, nil, qv.previousBtn, qv.nextBtn, qv.header),
		nil,
		nil,
		nil,
		scroll,
	)
	qv.container.Hide()
}

// Container returns the view's root object
func (qv *QueueView) Container() *fyne.Container {
	return qv.container
}

// Update shows queue, or hides the view when queue is empty
func (qv *QueueView) Update(queue *model.PlayQueue) {
	qv.queue = queue
	if queue.Len() == 0 {
		qv.container.Hide()
		return
	}

	qv.header.SetText(qv.HeaderText())
	qv.previousBtn.SetText(IconPrevious + " " + qv.localization.GetText(KeyPrevious))
	qv.nextBtn.SetText(qv.localization.GetText(KeyNext) + " " + IconNext)
	qv.list.Refresh()
	qv.list.ScrollTo(queue.Index())
	qv.container.Show()
}

// HeaderText describes the playlist and the cursor position
func (qv *QueueView) HeaderText() string {
	if qv.queue.Len() == 0 {
		return ""
	}
	return qv.localization.Textf(KeyPlaylist, qv.queue.Title, qv.queue.Index()+1, qv.queue.Len())
}

func (qv *QueueView) itemText(id widget.ListItemID) string {
	if id < 0 || id >= qv.queue.Len() {
		return ""
	}
	item := qv.queue.Items[id]
	title := item.Title
	if title == "" {
		title = item.URL
	}
	text := fmt.Sprintf(QueueItemFormat, id+1, title)
	if id == qv.queue.Index() {
		return CurrentItemMarker + text
	}
	return text
}
