package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"mblog/errors"
	"mblog/models"

	"gorm.io/gorm"
)

const (
	searchMinQueryLength = 2
	searchPostLimit      = 10
	searchTagLimit       = 5
	popularPostLimit     = 5

	// timelessYear labels published posts that carry no publish date.
	timelessYear = "Timeless"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// SearchResult is one hit from the sitewide search, either a post or a tag.
type SearchResult struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Slug        string     `json:"slug"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Type        string     `json:"type"` // "post" or "tag"
}

// MonthBucket is one month-of-year histogram entry.
type MonthBucket struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// PopularPost is a top-viewed post summary.
type PopularPost struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Views int64  `json:"views"`
}

// SiteStats is the sitewide engagement snapshot. All post-derived numbers
// cover published posts only; TotalReactions spans the whole reaction table.
type SiteStats struct {
	PostCount      int64         `json:"post_count"`
	TagCount       int64         `json:"tag_count"`
	TotalWords     int64         `json:"total_words"`
	TotalReactions int64         `json:"total_reactions"`
	TotalViews     int64         `json:"total_views"`
	PopularPosts   []PopularPost `json:"popular_posts"`
	PostsByMonth   []MonthBucket `json:"posts_by_month"`
}

// ArchiveGroup holds one year of the archive listing.
type ArchiveGroup struct {
	Year  string        `json:"year"`
	Posts []models.Post `json:"posts"`
}

// Search matches up to 10 published posts on title or excerpt and up to 5
// tags on name or description, case-insensitive substring, posts first.
// Queries under 2 characters short-circuit to an empty result without
// touching the store.
func (s *StatsService) Search(query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < searchMinQueryLength {
		return []SearchResult{}, nil
	}
	pattern := "%" + strings.ToLower(query) + "%"

	var posts []models.Post
	err := s.db.Model(&models.Post{}).
		Where("published = ?", true).
		Where("LOWER(title) LIKE ? OR LOWER(COALESCE(excerpt, '')) LIKE ?", pattern, pattern).
		Order("published_at DESC").
		Limit(searchPostLimit).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Store("failed to search posts", err)
	}

	var tags []models.Tag
	err = s.db.Model(&models.Tag{}).
		Where("LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(searchTagLimit).
		Find(&tags).Error
	if err != nil {
		return nil, errors.Store("failed to search tags", err)
	}

	results := make([]SearchResult, 0, len(posts)+len(tags))
	for _, p := range posts {
		results = append(results, SearchResult{
			ID:          p.ID,
			Title:       p.Title,
			Excerpt:     p.Excerpt,
			Slug:        p.Slug,
			PublishedAt: p.PublishedAt,
			Type:        "post",
		})
	}
	for _, t := range tags {
		results = append(results, SearchResult{
			ID:    t.ID,
			Title: t.Name,
			Slug:  t.Slug,
			Type:  "tag",
		})
	}
	return results, nil
}

// SiteStats aggregates the sitewide counters, the top posts by views, and a
// 12-bucket histogram of publish months over the trailing year. The
// histogram is keyed by month of year, so the same month across two years
// lands in one bucket. Popularity ties break on creation order.
func (s *StatsService) SiteStats() (*SiteStats, error) {
	stats := &SiteStats{}
	published := func() *gorm.DB {
		return s.db.Model(&models.Post{}).Where("published = ?", true)
	}

	if err := published().Count(&stats.PostCount).Error; err != nil {
		return nil, errors.Store("failed to count posts", err)
	}
	if err := s.db.Model(&models.Tag{}).Count(&stats.TagCount).Error; err != nil {
		return nil, errors.Store("failed to count tags", err)
	}
	if err := s.db.Model(&models.Reaction{}).Count(&stats.TotalReactions).Error; err != nil {
		return nil, errors.Store("failed to count reactions", err)
	}
	if err := published().Select("COALESCE(SUM(word_count), 0)").Scan(&stats.TotalWords).Error; err != nil {
		return nil, errors.Store("failed to sum word counts", err)
	}
	if err := published().Select("COALESCE(SUM(views), 0)").Scan(&stats.TotalViews).Error; err != nil {
		return nil, errors.Store("failed to sum views", err)
	}

	err := published().
		Select("title, slug, views").
		Order("views DESC").Order("created_at ASC").
		Limit(popularPostLimit).
		Scan(&stats.PopularPosts).Error
	if err != nil {
		return nil, errors.Store("failed to rank posts", err)
	}

	buckets, err := s.monthHistogram(time.Now())
	if err != nil {
		return nil, err
	}
	stats.PostsByMonth = buckets

	return stats, nil
}

// monthHistogram buckets publish dates from the trailing year by calendar
// month name, January through December.
func (s *StatsService) monthHistogram(now time.Time) ([]MonthBucket, error) {
	var stamps []time.Time
	err := s.db.Model(&models.Post{}).
		Where("published = ? AND published_at >= ?", true, now.AddDate(-1, 0, 0)).
		Pluck("published_at", &stamps).Error
	if err != nil {
		return nil, errors.Store("failed to load publish dates", err)
	}

	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		buckets[i].Month = time.Month(i + 1).String()
	}
	for _, ts := range stamps {
		buckets[ts.Month()-1].Count++
	}
	return buckets, nil
}

// Archive groups every published post by the calendar year it was published,
// newest year first. Posts published without a date land in the "Timeless"
// group, which always sorts last.
func (s *StatsService) Archive() ([]ArchiveGroup, error) {
	var posts []models.Post
	err := s.db.Preload("Tags").
		Where("published = ?", true).
		Order("published_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.Store("failed to list posts", err)
	}

	grouped := make(map[string][]models.Post)
	for _, p := range posts {
		year := timelessYear
		if p.PublishedAt != nil {
			year = strconv.Itoa(p.PublishedAt.Year())
		}
		grouped[year] = append(grouped[year], p)
	}

	years := make([]string, 0, len(grouped))
	for year := range grouped {
		years = append(years, year)
	}
	sort.Slice(years, func(i, j int) bool {
		if years[i] == timelessYear {
			return false
		}
		if years[j] == timelessYear {
			return true
		}
		return years[i] > years[j]
	})

	groups := make([]ArchiveGroup, 0, len(years))
	for _, year := range years {
		groups = append(groups, ArchiveGroup{Year: year, Posts: grouped[year]})
	}
	return groups, nil
}
