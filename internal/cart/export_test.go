package cart

const CartCookie = cartCookie
