package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inkwell/internal/config"
	"inkwell/internal/models"
)

func testWeights() config.PromotionConfig {
	return config.PromotionConfig{
		QualityWeight:     0.30,
		VelocityWeight:    0.20,
		SocialWeight:      0.20,
		ConversionWeight:  0.15,
		CredibilityWeight: 0.15,
	}
}

func TestSaturate(t *testing.T) {
	assert.Equal(t, 0.0, saturate(0, 50))
	assert.Equal(t, 0.0, saturate(-3, 50))
	assert.Equal(t, 0.5, saturate(50, 50))
	// 單調遞增且永遠小於 1
	assert.Greater(t, saturate(200, 50), saturate(100, 50))
	assert.Less(t, saturate(1e9, 50), 1.0)
}

func TestComputeFactors(t *testing.T) {
	book := &models.Book{
		Quality: &models.QualityScore{Overall: 80},
		Stats: models.BookStats{
			Views:    1000,
			Likes:    60,
			Shares:   20,
			Comments: 20,
			Sales:    50,
		},
	}
	cred := models.Credibility{PublishedBooks: 5, Followers: 500, AvgQuality: 90}

	f := ComputeFactors(book, 50, cred)

	assert.InDelta(t, 0.8, f.Quality, 1e-9)
	assert.InDelta(t, 0.5, f.Velocity, 1e-9)  // 50/(50+50)
	assert.InDelta(t, 0.5, f.Social, 1e-9)    // 100/(100+100)
	assert.InDelta(t, 0.05, f.Conversion, 1e-9)
	assert.InDelta(t, (0.5+0.5+0.9)/3, f.Credibility, 1e-9)
}

func TestComputeFactorsMissingData(t *testing.T) {
	// 未評分也沒有任何互動的新書，各因素為 0 而非錯誤
	f := ComputeFactors(&models.Book{}, 0, models.Credibility{})

	assert.Zero(t, f.Quality)
	assert.Zero(t, f.Velocity)
	assert.Zero(t, f.Social)
	assert.Zero(t, f.Conversion)
	assert.Zero(t, f.Credibility)
	assert.Zero(t, Score(f, testWeights()))
}

func TestComputeFactorsConversionCapped(t *testing.T) {
	// 銷售數異常高於瀏覽數時，轉換率上限為 1
	book := &models.Book{Stats: models.BookStats{Views: 10, Sales: 100}}
	f := ComputeFactors(book, 0, models.Credibility{})
	assert.Equal(t, 1.0, f.Conversion)
}

func TestScore(t *testing.T) {
	f := PromotionFactors{
		Quality:     1,
		Velocity:    1,
		Social:      1,
		Conversion:  1,
		Credibility: 1,
	}
	// 權重總和為 1 時滿分即為 1
	assert.InDelta(t, 1.0, Score(f, testWeights()), 1e-9)

	f = PromotionFactors{Quality: 0.5}
	assert.InDelta(t, 0.15, Score(f, testWeights()), 1e-9)
}

func TestScoreOrdering(t *testing.T) {
	w := testWeights()
	strong := PromotionFactors{Quality: 0.9, Velocity: 0.6, Social: 0.4}
	weak := PromotionFactors{Quality: 0.3, Velocity: 0.2, Social: 0.4}
	assert.Greater(t, Score(strong, w), Score(weak, w))
}
