package schedule

import "github.com/julianstephens/shiftdesk/internal/models"

// JobCache maps job ids to display titles and remembers the order ids were
// first seen in.
type JobCache struct {
	order  []string
	titles map[string]string
}

// NewJobCache returns an empty cache.
func NewJobCache() *JobCache {
	return &JobCache{titles: make(map[string]string)}
}

// Get returns the cached title for id.
func (c *JobCache) Get(id string) (string, bool) {
	title, ok := c.titles[id]
	return title, ok
}

// Set stores title for id, replacing any earlier title.
func (c *JobCache) Set(id, title string) {
	if _, ok := c.titles[id]; !ok {
		c.order = append(c.order, id)
	}
	c.titles[id] = title
}

// SetIfAbsent stores title only when id is unknown. It reports whether it did.
func (c *JobCache) SetIfAbsent(id, title string) bool {
	if _, ok := c.titles[id]; ok {
		return false
	}
	c.Set(id, title)
	return true
}

func (c *JobCache) Len() int {
	return len(c.order)
}

// Jobs returns the cached entries in first-seen order.
func (c *JobCache) Jobs() []models.Job {
	jobs := make([]models.Job, 0, len(c.order))
	for _, id := range c.order {
		jobs = append(jobs, models.Job{ID: id, Title: c.titles[id]})
	}
	return jobs
}
