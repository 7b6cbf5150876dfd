package server

import "net/http"

// Example is a canned input clients can use to try the analyzer.
type Example struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

var examples = map[string]Example{
	"python_function": {
		Title:       "Python Function Improvement",
		Description: "Adding null checks and error handling",
		Code: `diff --git a/src/utils.py b/src/utils.py
index 1234567..abcdefg 100644
--- a/src/utils.py
+++ b/src/utils.py
@@ -10,7 +10,10 @@ def calculate_total(items):
     total = 0
     for item in items:
-        total += item.price
+        if item.price is not None:
+            total += item.price
+        else:
+            print(f"Warning: Item {item.name} has no price")
     return total`,
	},
	"react_component": {
		Title:       "React Component Enhancement",
		Description: "Adding props validation and default values",
		Code: `diff --git a/components/UserProfile.tsx b/components/UserProfile.tsx
index 1234567..abcdefg 100644
--- a/components/UserProfile.tsx
+++ b/components/UserProfile.tsx
@@ -15,8 +15,12 @@ const UserProfile: React.FC<Props> = ({ user }) => {
   return (
     <div className="user-profile">
-      <h2>{user.name}</h2>
-      <p>{user.email}</p>
+      <h2>{user.name || 'Anonymous User'}</h2>
+      <p>{user.email || 'No email provided'}</p>
+      {user.avatar && (
+        <img src={user.avatar} alt="User avatar" />
+      )}
+      <div>Last seen: {user.lastSeen || 'Never'}</div>
     </div>
   );
 };`,
	},
	"sql_optimization": {
		Title:       "SQL Query Optimization",
		Description: "Improving query performance with proper joins and filters",
		Code: `diff --git a/database/queries.sql b/database/queries.sql
index 1234567..abcdefg 100644
--- a/database/queries.sql
+++ b/database/queries.sql
@@ -5,10 +5,12 @@
 -- Get user orders with product details
-SELECT u.name, o.order_date, p.product_name, oi.quantity
+SELECT u.name, o.order_date, p.product_name, oi.quantity, p.category
 FROM users u
-JOIN orders o ON u.id = o.user_id
-JOIN order_items oi ON o.id = oi.order_id
-JOIN products p ON oi.product_id = p.id
-ORDER BY o.order_date DESC;
+  INNER JOIN orders o ON u.id = o.user_id
+  INNER JOIN order_items oi ON o.id = oi.order_id
+  INNER JOIN products p ON oi.product_id = p.id
+WHERE o.order_date >= DATE_SUB(NOW(), INTERVAL 30 DAY)
+  AND u.status = 'active'
+ORDER BY o.order_date DESC
+LIMIT 100;`,
	},
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, examples)
}
