// Package memory provides a process-local implementation of db.Store.
// It is used by tests and by STORE_DRIVER=memory for local runs without Postgres.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	db "github.com/katatrina/postboard/internal/db/sqlc"
)

type Store struct {
	mu            sync.Mutex
	posts         map[uuid.UUID]db.Post
	bids          []db.Bid
	notifications []db.Notification
	now           func() time.Time
}

var _ db.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		posts: make(map[uuid.UUID]db.Post),
		now:   time.Now,
	}
}

func (s *Store) CreatePost(ctx context.Context, arg db.CreatePostParams) (db.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	post := db.Post{
		ID:               arg.ID,
		UserID:           arg.UserID,
		Text:             arg.Text,
		AnnouncementDate: arg.AnnouncementDate,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.posts[post.ID] = post
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id uuid.UUID) (db.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getPost(id)
}

// GetPostByIDForUpdate has no locking meaning outside a transaction; the tx methods serialize on s.mu.
func (s *Store) GetPostByIDForUpdate(ctx context.Context, id uuid.UUID) (db.Post, error) {
	return s.GetPostByID(ctx, id)
}

func (s *Store) ClosePost(ctx context.Context, id uuid.UUID) (db.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closePost(id)
}

func (s *Store) ListPosts(ctx context.Context) ([]db.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := s.filterPosts(func(db.Post) bool { return true })
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *Store) ListActivePosts(ctx context.Context) ([]db.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := s.filterPosts(func(p db.Post) bool { return p.Active })
	sortByDeadline(posts)
	return posts, nil
}

func (s *Store) ListOverduePosts(ctx context.Context, announcementDate time.Time) ([]db.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := s.filterPosts(func(p db.Post) bool {
		return p.Active && p.AnnouncementDate.Before(announcementDate)
	})
	sortByDeadline(posts)
	return posts, nil
}

func (s *Store) ListPostIDsByParticipant(ctx context.Context, userID string) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[uuid.UUID]struct{})
	ids := []uuid.UUID{}
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, p := range s.posts {
		if p.UserID == userID {
			add(p.ID)
		}
	}
	for _, b := range s.bids {
		if b.UserID == userID {
			add(b.PostID)
		}
	}
	return ids, nil
}

func (s *Store) CreateBid(ctx context.Context, arg db.CreateBidParams) (db.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createBid(arg)
}

func (s *Store) ListBidsByPostID(ctx context.Context, postID uuid.UUID) ([]db.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bids := []db.Bid{}
	for _, b := range s.bids {
		if b.PostID == postID {
			bids = append(bids, b)
		}
	}
	return bids, nil
}

func (s *Store) ListDistinctBidderIDsByPostID(ctx context.Context, postID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.distinctBidders(postID), nil
}

func (s *Store) CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createNotification(arg), nil
}

func (s *Store) ListNotificationsByUserID(ctx context.Context, userID string) ([]db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifications := []db.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			notifications = append(notifications, s.notifications[i])
		}
	}
	return notifications, nil
}

func (s *Store) getPost(id uuid.UUID) (db.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return db.Post{}, db.ErrRecordNotFound
	}
	return post, nil
}

func (s *Store) closePost(id uuid.UUID) (db.Post, error) {
	post, err := s.getPost(id)
	if err != nil {
		return post, err
	}
	post.Active = false
	post.UpdatedAt = s.now()
	s.posts[id] = post
	return post, nil
}

func (s *Store) createBid(arg db.CreateBidParams) (db.Bid, error) {
	if _, ok := s.posts[arg.PostID]; !ok {
		return db.Bid{}, db.ErrRecordNotFound
	}
	bid := db.Bid{
		ID:        arg.ID,
		UserID:    arg.UserID,
		PostID:    arg.PostID,
		CreatedAt: s.now(),
	}
	s.bids = append(s.bids, bid)
	return bid, nil
}

func (s *Store) createNotification(arg db.CreateNotificationParams) db.Notification {
	notification := db.Notification{
		ID:              arg.ID,
		UserID:          arg.UserID,
		Subject:         arg.Subject,
		Action:          arg.Action,
		SubjectAuthorID: arg.SubjectAuthorID,
		CreatedAt:       s.now(),
	}
	s.notifications = append(s.notifications, notification)
	return notification
}

func (s *Store) distinctBidders(postID uuid.UUID) []string {
	bidders := []string{}
	for _, b := range s.bids {
		if b.PostID == postID && !slices.Contains(bidders, b.UserID) {
			bidders = append(bidders, b.UserID)
		}
	}
	sort.Strings(bidders)
	return bidders
}

func (s *Store) filterPosts(keep func(db.Post) bool) []db.Post {
	posts := []db.Post{}
	for _, p := range s.posts {
		if keep(p) {
			posts = append(posts, p)
		}
	}
	return posts
}

func sortByDeadline(posts []db.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].AnnouncementDate.Before(posts[j].AnnouncementDate)
	})
}
