package authorization

// CanAccessResourceByOwnerID allows admins everything and everyone else only their own resources.
func CanAccessResourceByOwnerID(userID uint, userRole UserRole, resourceOwnerID uint) bool {
	if userRole.IsAdmin() {
		return true
	}
	return userID == resourceOwnerID
}
