package registry

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

// defaultAdmin is created on first start when no "admin" user exists.
var defaultAdmin = types.User{
	Username:   "admin",
	Password:   "admin123",
	Name:       "系统管理员",
	Address:    "系统管理",
	Phone:      "12345678901",
	Email:      "admin@example.com",
	IsAdmin:    true,
	IsApproved: true,
}

// defaultItemTypes are created on first start when no item type exists.
var defaultItemTypes = []types.ItemType{
	{Name: "食品", Attributes: []string{"保质期", "数量"}},
	{Name: "书籍", Attributes: []string{"作者", "出版社", "出版日期"}},
	{Name: "工具", Attributes: []string{"品牌", "使用年限", "功能"}},
}

// Seed creates the default administrator and item types when they are
// missing. Running it again changes nothing.
func (s *Service) Seed() error {
	if _, ok := s.store.GetUser(defaultAdmin.Username); !ok {
		if err := s.store.AddUser(defaultAdmin); err != nil {
			return err
		}
		s.logger.Info("seeded administrator", zap.String("username", defaultAdmin.Username))
	}

	if len(s.store.ItemTypes()) > 0 {
		return nil
	}
	for _, t := range defaultItemTypes {
		if err := s.store.AddItemType(t); err != nil {
			return err
		}
	}
	s.logger.Info("seeded item types", zap.Int("count", len(defaultItemTypes)))
	return nil
}
