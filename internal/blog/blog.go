// Package blog stores and serves the storefront's CMS posts.
package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("blog post not found")

type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url"`
	Author      string    `json:"author"`
	Tags        []string  `json:"tags,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

type NewPost struct {
	Title    string   `json:"title" validate:"required,min=3"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content" validate:"required"`
	ImageURL string   `json:"image_url"`
	Author   string   `json:"author" validate:"required"`
	Tags     []string `json:"tags"`
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// InsertPost publishes a new post.
func (c *Conf) InsertPost(ctx context.Context, np NewPost) (Post, error) {
	post := Post{
		ID:       uuid.NewString(),
		Title:    np.Title,
		Excerpt:  np.Excerpt,
		Content:  np.Content,
		ImageURL: np.ImageURL,
		Author:   np.Author,
		Tags:     np.Tags,
	}
	query := `
		INSERT INTO blog_posts (id, title, excerpt, content, image_url, author, tags, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING published_at
	`
	err := c.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Excerpt, post.Content, post.ImageURL, post.Author, joinTags(post.Tags),
	).Scan(&post.PublishedAt)
	if err != nil {
		return Post{}, fmt.Errorf("inserting blog post: %w", err)
	}
	return post, nil
}

// ListPosts returns all posts, newest first.
func (c *Conf) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, excerpt, content, image_url, author, tags, published_at
		FROM blog_posts
		ORDER BY published_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing blog posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var (
			p    Post
			tags string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Content, &p.ImageURL, &p.Author, &tags, &p.PublishedAt); err != nil {
			return nil, fmt.Errorf("scanning blog post: %w", err)
		}
		p.Tags = splitTags(tags)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blog posts: %w", err)
	}
	return posts, nil
}

// GetPostByID fetches one post.
func (c *Conf) GetPostByID(ctx context.Context, id string) (Post, error) {
	var (
		p    Post
		tags string
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT id, title, excerpt, content, image_url, author, tags, published_at
		FROM blog_posts
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Excerpt, &p.Content, &p.ImageURL, &p.Author, &tags, &p.PublishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, fmt.Errorf("querying blog post %s: %w", id, err)
	}
	p.Tags = splitTags(tags)
	return p, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
