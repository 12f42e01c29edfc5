package services

import (
	"fmt"

	"github.com/pushp314/releasenotes-backend/internal/models"
	"gorm.io/gorm"
)

// ProductVersion identifies releases that should be unique per product
type ProductVersion struct {
	Product string `json:"product"`
	Version string `json:"version"`
}

// Duplicate lists the ids sharing one product/version pair
type Duplicate struct {
	ProductVersion
	IDs []uint `json:"ids"`
}

// DuplicateProductVersions reports product/version pairs used by more than
// one release (across channels), ordered by product then version.
func (s *Releases) DuplicateProductVersions() ([]Duplicate, error) {
	var rows []models.Release
	err := s.DB.Select("id", "product", "version").
		Order("product ASC, version ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load releases: %w", err)
	}

	dups := []Duplicate{}
	for i := 0; i < len(rows); {
		j := i + 1
		for j < len(rows) && rows[j].Product == rows[i].Product && rows[j].Version == rows[i].Version {
			j++
		}
		if j-i > 1 {
			d := Duplicate{ProductVersion: ProductVersion{Product: rows[i].Product, Version: rows[i].Version}}
			for _, r := range rows[i:j] {
				d.IDs = append(d.IDs, r.ID)
			}
			dups = append(dups, d)
		}
		i = j
	}
	return dups, nil
}

// NormalizeVersions rewrites legacy "X.0.0" versions in place and returns
// how many releases changed. Only the version column is touched.
func (s *Releases) NormalizeVersions() (int, error) {
	return NormalizeVersions(s.DB)
}

// NormalizeVersions is usable from migrations, which only hold a *gorm.DB
func NormalizeVersions(db *gorm.DB) (int, error) {
	var rows []models.Release
	err := db.Select("id", "channel", "version").
		Where("version LIKE ?", "%.0.0").
		Find(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("load legacy versions: %w", err)
	}

	changed := 0
	for _, r := range rows {
		v := NormalizeVersion(r.Channel, r.Version)
		if v == r.Version {
			continue
		}
		if err := db.Model(&models.Release{}).Where("id = ?", r.ID).UpdateColumn("version", v).Error; err != nil {
			return changed, fmt.Errorf("normalize release %d: %w", r.ID, err)
		}
		changed++
	}
	return changed, nil
}
