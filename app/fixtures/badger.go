package fixtures

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"vacationblog/app/models"
)

const (
	postKeyPrefix    = "post:"
	commentKeyPrefix = "comment:"

	postSeqKey    = "seq:post"
	commentSeqKey = "seq:comment"
)

// BadgerStore persists the fixture set in an embedded Badger database, so a
// locally served dataset survives restarts. It implements the same Store
// interface as MemoryStore.
type BadgerStore struct {
	db *badger.DB
	mu sync.RWMutex
}

// OpenBadgerStore opens (or creates) a store at path. An empty path opens an
// in-memory database, which tests use.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil).WithSyncWrites(false).WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture db: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Seed loads the built-in dataset into an empty store. A store that already
// contains posts is left untouched.
func (s *BadgerStore) Seed() error {
	posts, err := s.Posts()
	if err != nil {
		return err
	}
	if len(posts) > 0 {
		return nil
	}
	for _, p := range SeedPosts() {
		post := p
		if err := s.AddPost(&post); err != nil {
			return err
		}
	}
	for _, c := range SeedComments() {
		comment := c
		if err := s.AddComment(&comment); err != nil {
			return err
		}
	}
	return nil
}

// Posts returns all posts in the store.
func (s *BadgerStore) Posts() ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []models.Post
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(postKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &post)
			})
			if err != nil {
				return err
			}
			posts = append(posts, post)
		}
		return nil
	})
	return posts, err
}

// PostBySlug scans for the post with the given slug.
func (s *BadgerStore) PostBySlug(slug string) (*models.Post, error) {
	posts, err := s.Posts()
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			post := p
			return &post, nil
		}
	}
	return nil, ErrNotFound
}

// PostByID returns the post with the given id or ErrNotFound.
func (s *BadgerStore) PostByID(id int) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var post models.Post
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &post)
		})
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// AddPost validates and stores a post, assigning the next sequence id when
// none is set.
func (s *BadgerStore) AddPost(post *models.Post) error {
	if post == nil {
		return fmt.Errorf("post cannot be nil")
	}
	post.BeforeCreate()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if post.ID == 0 {
			id, err := nextID(txn, postSeqKey)
			if err != nil {
				return err
			}
			post.ID = id
		} else if err := bumpSeq(txn, postSeqKey, post.ID); err != nil {
			return err
		}
		if err := post.Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// UpdatePost replaces an existing post.
func (s *BadgerStore) UpdatePost(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(postKey(post.ID)); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		data, err := json.Marshal(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// DeletePost removes a post and all its comments.
func (s *BadgerStore) DeletePost(id int) error {
	comments, err := s.Comments(id)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if err := s.DeleteComment(c.ID); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(postKey(id)); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(postKey(id))
	})
}

// Comments returns all comments for a post, regardless of moderation state.
func (s *BadgerStore) Comments(postID int) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]models.Comment, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(commentKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var comment models.Comment
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &comment)
			})
			if err != nil {
				return err
			}
			if comment.PostID == postID {
				comments = append(comments, comment)
			}
		}
		return nil
	})
	return comments, err
}

// CommentByID returns the comment with the given id or ErrNotFound.
func (s *BadgerStore) CommentByID(id int) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comment models.Comment
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(commentKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &comment)
		})
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// AddComment validates and appends a comment, assigning the next sequence id
// when none is set.
func (s *BadgerStore) AddComment(comment *models.Comment) error {
	if comment == nil {
		return fmt.Errorf("comment cannot be nil")
	}
	comment.BeforeCreate()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if comment.ID == 0 {
			id, err := nextID(txn, commentSeqKey)
			if err != nil {
				return err
			}
			comment.ID = id
		} else if err := bumpSeq(txn, commentSeqKey, comment.ID); err != nil {
			return err
		}
		if err := comment.Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(comment)
		if err != nil {
			return err
		}
		return txn.Set(commentKey(comment.ID), data)
	})
}

// UpdateComment replaces an existing comment.
func (s *BadgerStore) UpdateComment(comment *models.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(commentKey(comment.ID)); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		data, err := json.Marshal(comment)
		if err != nil {
			return err
		}
		return txn.Set(commentKey(comment.ID), data)
	})
}

// DeleteComment removes a comment.
func (s *BadgerStore) DeleteComment(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(commentKey(id)); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(commentKey(id))
	})
}

func postKey(id int) []byte {
	return []byte(postKeyPrefix + strconv.Itoa(id))
}

func commentKey(id int) []byte {
	return []byte(commentKeyPrefix + strconv.Itoa(id))
}

// nextID increments and returns the sequence stored under seqKey.
func nextID(txn *badger.Txn, seqKey string) (int, error) {
	var id int
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			id, _ = strconv.Atoi(string(val))
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	if err := txn.Set([]byte(seqKey), []byte(strconv.Itoa(id))); err != nil {
		return 0, err
	}
	return id, nil
}

// bumpSeq raises the sequence so future generated ids don't collide with an
// explicitly provided one.
func bumpSeq(txn *badger.Txn, seqKey string, id int) error {
	var current int
	item, err := txn.Get([]byte(seqKey))
	if err == nil {
		err = item.Value(func(val []byte) error {
			current, _ = strconv.Atoi(string(val))
			return nil
		})
		if err != nil {
			return err
		}
	} else if err != badger.ErrKeyNotFound {
		return err
	}
	if id > current {
		return txn.Set([]byte(seqKey), []byte(strconv.Itoa(id)))
	}
	return nil
}
