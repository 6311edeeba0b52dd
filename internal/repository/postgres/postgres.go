package postgres

import (
	"database/sql"

	"ugeco-backoffice/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.BrandRepository
	repository.OfferRepository
	repository.PackageRepository
	repository.ProfileRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		UserRepository:    NewUserRepository(db),
		BrandRepository:   NewBrandRepository(db),
		OfferRepository:   NewOfferRepository(db),
		PackageRepository: NewPackageRepository(db),
		ProfileRepository: NewProfileRepository(db),
	}
}
